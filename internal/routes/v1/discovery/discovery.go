package routesV1Discovery

import (
	"net/http"

	"github.com/campuscrush/app/internal/engine"
	"github.com/campuscrush/app/internal/entity"
	authUseCase "github.com/campuscrush/app/internal/usecase/auth"
	"github.com/campuscrush/app/pkg/http_util"
	"github.com/labstack/echo"
)

// QueueHandler refreshes and returns the discovery queue. An empty
// queue is reported as no_more_candidates, not an error.
func QueueHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	if err := eng.Discovery.Refresh(c.Request().Context(), user.ID); err != nil {
		return http_util.EncodeError(c, err)
	}

	queue := eng.Discovery.Queue(user.ID)
	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.DiscoveryResponse]{
		Message: "OK",
		Data: entity.DiscoveryResponse{
			Profiles:         queue,
			NoMoreCandidates: len(queue) == 0,
		},
	})
}

func StatsHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	if _, err := authCase.GetUserFromJWTRequest(c); err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	stats, err := eng.Profiles.GetCampusStats(c.Request().Context())
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[*entity.CampusStats]{
		Message: "OK",
		Data:    stats,
	})
}
