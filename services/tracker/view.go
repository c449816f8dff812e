package tracker

import "travelmap/db"

// DefaultColor tints the page when there is no current user
const DefaultColor = "gray"

// ViewModel is the data handed to the index template
type ViewModel struct {
	Countries     []string
	Total         int
	Users         []db.User
	Color         string
	Error         string
	CurrentUserID int64
}

// ResolveCurrentUser picks the user whose id is currentID, or the first
// user when none matches. It reports false only for an empty list.
func ResolveCurrentUser(currentID int64, users []db.User) (db.User, bool) {
	if len(users) == 0 {
		return db.User{}, false
	}

	for _, u := range users {
		if u.ID == currentID {
			return u, true
		}
	}

	return users[0], true
}

// BuildViewModel fills in neutral defaults for anything left empty
func BuildViewModel(countries []string, users []db.User, color, errMsg string) ViewModel {
	if countries == nil {
		countries = []string{}
	}
	if users == nil {
		users = []db.User{}
	}
	if color == "" {
		color = DefaultColor
	}

	return ViewModel{
		Countries: countries,
		Total:     len(countries),
		Users:     users,
		Color:     color,
		Error:     errMsg,
	}
}
