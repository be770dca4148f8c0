// Package seed holds the fixed reference rows the admin dashboard expects on a
// fresh database.
package seed

import "github.com/hetulpatel/tiniadmin/internal/models"

// Users returns the reference accounts. Role and status defaults come from
// the schema when left empty.
func Users() []models.User {
	return []models.User{
		{Username: "admin", Email: "admin@tini.com", FullName: "Admin User", Department: "IT", Role: "admin"},
		{Username: "boss", Email: "boss@tini.com", FullName: "Boss Manager", Department: "Management", Role: "admin"},
		{Username: "ghost_boss", Email: "ghost@tini.com", FullName: "Ghost Boss", Department: "Security", Role: "admin"},
		{Username: "EMP001", Email: "emp001@tini.com", FullName: "Người Dùng Quản Trị", Department: "IT", Role: "admin"},
		{Username: "EMP002", Email: "emp002@tini.com", FullName: "Người Dùng Thường", Department: "Operations", Role: "user"},
	}
}

// Activities returns the reference activity log. CreatedAt is zero so the
// database default timestamp applies.
func Activities() []models.Activity {
	return []models.Activity{
		{UserID: 1, Action: models.ActionLogin, Details: "Admin login successful", IPAddress: models.LoopbackIP},
		{UserID: 1, Action: "Chuyển sang POWER", Details: "Version switched to POWER v4.0.0", IPAddress: models.LoopbackIP},
		{UserID: 2, Action: "Thử đăng nhập", Details: "Login attempt", IPAddress: models.LoopbackIP},
		{UserID: 3, Action: "Cập nhật cài đặt", Details: "Settings updated", IPAddress: models.LoopbackIP},
		{UserID: 4, Action: "Đăng ký thiết bị", Details: "Device registration", IPAddress: models.LoopbackIP},
	}
}

// Usernames lists the reference usernames in insertion order.
func Usernames() []string {
	users := Users()
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Username
	}
	return out
}
