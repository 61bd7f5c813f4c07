package domain

import "strings"

// nicknameBlocklist holds reserved names that may never be registered,
// compared case-insensitively.
var nicknameBlocklist = []string{
	"admin",
	"administrator",
	"root",
	"system",
	"support",
	"suporte",
	"help",
	"moderator",
	"moderador",
	"staff",
	"official",
	"oficial",
	"security",
	"contact",
	"contato",
	"webmaster",
	"postmaster",
	"noreply",
	"no.reply",
	"api",
	"null",
	"undefined",
}

func nicknameIsBlocked(nickname string) bool {
	for _, name := range nicknameBlocklist {
		if strings.EqualFold(name, nickname) {
			return true
		}
	}
	return false
}
