package api

import (
	"strings"

	"myblog/config"
	"myblog/database"
	"myblog/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, mailer services.Mailer, c map[string]string) *routeHandlers {
	baseURL := strings.TrimRight(config.GetString(c, "BASE_URL", "http://localhost:8080"), "/")

	return &routeHandlers{
		postHandler: newPostHandler(database.PostRepo(), database.CommentRepo(), database.TagRepo()),
		shareHandler: newShareHandler(
			database.PostRepo(),
			mailer,
			baseURL,
			config.GetString(c, "MAIL_FROM", "admin@myblog.com"),
		),
		authHandler: newAuthHandler(database.UserRepo(), config.GetString(c, "JWT_SECRET", "")),
		feedHandler: newFeedHandler(
			database.PostRepo(),
			baseURL,
			config.GetString(c, "BLOG_TITLE", "My Blog"),
			config.GetString(c, "BLOG_AUTHOR", "Admin"),
		),
	}
}
