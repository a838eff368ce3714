package routesV1

import (
	"github.com/campuscrush/app/internal/engine"
	routesV1Auth "github.com/campuscrush/app/internal/routes/v1/auth"
	routesV1Discovery "github.com/campuscrush/app/internal/routes/v1/discovery"
	routesV1Match "github.com/campuscrush/app/internal/routes/v1/match"
	routesV1Session "github.com/campuscrush/app/internal/routes/v1/session"
	routesV1Social "github.com/campuscrush/app/internal/routes/v1/social"
	authUseCase "github.com/campuscrush/app/internal/usecase/auth"
	"github.com/labstack/echo"
)

func InitV1Routes(e *echo.Echo, eng *engine.Engine, authCase authUseCase.IAuthUseCase) {
	v1 := e.Group("/v1")

	v1.POST("/auth/sign-up", func(c echo.Context) error {
		return routesV1Auth.SignUpHandler(c, authCase)
	})
	v1.POST("/auth/sign-in", func(c echo.Context) error {
		return routesV1Auth.SignInHandler(c, authCase)
	})

	v1.POST("/session/start", func(c echo.Context) error {
		return routesV1Session.StartHandler(c, eng, authCase)
	})
	v1.POST("/session/end", func(c echo.Context) error {
		return routesV1Session.EndHandler(c, eng, authCase)
	})

	v1.GET("/discovery", func(c echo.Context) error {
		return routesV1Discovery.QueueHandler(c, eng, authCase)
	})
	v1.GET("/stats", func(c echo.Context) error {
		return routesV1Discovery.StatsHandler(c, eng, authCase)
	})

	v1.POST("/swipe/like/:id", func(c echo.Context) error {
		return routesV1Match.LikeHandler(c, eng, authCase)
	})
	v1.POST("/swipe/pass/:id", func(c echo.Context) error {
		return routesV1Match.PassHandler(c, eng, authCase)
	})

	v1.GET("/matches", func(c echo.Context) error {
		return routesV1Match.ListMatchesHandler(c, eng, authCase)
	})
	v1.GET("/matches/:id/messages", func(c echo.Context) error {
		return routesV1Match.OpenConversationHandler(c, eng, authCase)
	})
	v1.GET("/matches/:id/messages/more", func(c echo.Context) error {
		return routesV1Match.LoadMoreHandler(c, eng, authCase)
	})
	v1.POST("/matches/:id/messages", func(c echo.Context) error {
		return routesV1Match.SendMessageHandler(c, eng, authCase)
	})
	v1.POST("/matches/:id/read", func(c echo.Context) error {
		return routesV1Match.MarkReadHandler(c, eng, authCase)
	})
	v1.POST("/matches/:id/close", func(c echo.Context) error {
		return routesV1Match.CloseConversationHandler(c, eng, authCase)
	})
	v1.POST("/matches/:id/unmatch", func(c echo.Context) error {
		return routesV1Match.UnmatchHandler(c, eng, authCase)
	})

	v1.POST("/users/:id/block", func(c echo.Context) error {
		return routesV1Match.BlockHandler(c, eng, authCase)
	})
	v1.POST("/users/:id/report", func(c echo.Context) error {
		return routesV1Social.ReportHandler(c, eng, authCase)
	})

	v1.GET("/nudges", func(c echo.Context) error {
		return routesV1Social.ListNudgesHandler(c, eng, authCase)
	})
	v1.POST("/nudges", func(c echo.Context) error {
		return routesV1Social.SendNudgeHandler(c, eng, authCase)
	})
	v1.POST("/nudges/:id/seen", func(c echo.Context) error {
		return routesV1Social.MarkNudgeSeenHandler(c, eng, authCase)
	})

	v1.GET("/crushes", func(c echo.Context) error {
		return routesV1Social.ListCrushesHandler(c, eng, authCase)
	})
	v1.POST("/crushes", func(c echo.Context) error {
		return routesV1Social.SendCrushHandler(c, eng, authCase)
	})
	v1.POST("/crushes/:id/guess", func(c echo.Context) error {
		return routesV1Social.GuessCrushHandler(c, eng, authCase)
	})

	v1.GET("/admirers", func(c echo.Context) error {
		return routesV1Social.ListAdmirersHandler(c, eng, authCase)
	})
	v1.POST("/admirers/:id/reveal", func(c echo.Context) error {
		return routesV1Social.RevealHandler(c, eng, authCase)
	})
	v1.POST("/admirers/:id/like", func(c echo.Context) error {
		return routesV1Social.LikeAdmirerHandler(c, eng, authCase)
	})
	v1.POST("/admirers/:id/pass", func(c echo.Context) error {
		return routesV1Social.PassAdmirerHandler(c, eng, authCase)
	})
}
