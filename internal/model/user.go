package model

import "net/url"

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// GuestUser builds the directory entry for a user that connects without one.
func GuestUser(id string) User {
	short := []rune(id)
	if len(short) > 4 {
		short = short[:4]
	}
	name := "User-" + string(short)
	return User{ID: id, Name: name, Avatar: AvatarURL(name)}
}

func AvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
