package routesV1Session

import (
	"net/http"

	"github.com/campuscrush/app/internal/engine"
	authUseCase "github.com/campuscrush/app/internal/usecase/auth"
	"github.com/campuscrush/app/pkg/http_util"
	"github.com/labstack/echo"
)

// StartHandler runs the initial bulk load and opens the caller's
// realtime subscription. The load is all-or-nothing: one failed read
// and the client retries the whole thing, never a partial state.
func StartHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	if err := eng.Load(c.Request().Context(), user.ID); err != nil {
		return http_util.EncodeError(c, err)
	}
	eng.StartSession(user.ID)

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[map[string]string]{
		Message: "OK",
		Data:    map[string]string{"message": "session started"},
	})
}

func EndHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	eng.EndSession(user.ID)

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[map[string]string]{
		Message: "OK",
		Data:    map[string]string{"message": "session ended"},
	})
}
