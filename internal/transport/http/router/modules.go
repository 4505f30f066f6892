package router

import (
	"whosbook/internal/app"
	"whosbook/internal/transport/http/handler"
)

// Modules 全部业务模块
func Modules(s *app.Services) *Registry {
	reg := NewRegistry()
	reg.Register(
		handler.NewAuth(s.Members),
		handler.NewMembers(s.Members, s.Social),
		handler.NewCurations(s.Curations, s.Social, s.Images, s.Members),
		handler.NewFeeds(s.Feeds, s.Categories),
		handler.NewAdmin(s.Ranking, s.Members),
	)
	return reg
}
