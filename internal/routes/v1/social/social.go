package routesV1Social

import (
	"net/http"
	"strconv"

	"github.com/campuscrush/app/internal/engine"
	"github.com/campuscrush/app/internal/entity"
	authUseCase "github.com/campuscrush/app/internal/usecase/auth"
	"github.com/campuscrush/app/pkg/http_util"
	"github.com/labstack/echo"
)

func ListNudgesHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	nudges, err := eng.Social.NudgesReceived(c.Request().Context(), user.ID)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[[]entity.Nudge]{
		Message: "Nudges fetched successfully",
		Data:    nudges,
	})
}

func SendNudgeHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	reqBody, err := http_util.Decode[entity.SendNudgeRequest](c)
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	nudge, err := eng.Social.SendNudge(c.Request().Context(), user.ID, reqBody)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.NudgeResponse]{
		Message: "Nudge sent",
		Data:    *nudge,
	})
}

func MarkNudgeSeenHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	nudgeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if err := eng.Social.MarkNudgeSeen(c.Request().Context(), user.ID, uint(nudgeID)); err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, map[string]string{"message": "Nudge marked seen"})
}

func ListCrushesHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	crushes, err := eng.Social.CrushesReceived(c.Request().Context(), user.ID)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[[]entity.CrushResponse]{
		Message: "Crushes fetched successfully",
		Data:    crushes,
	})
}

func SendCrushHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	reqBody, err := http_util.Decode[entity.SendCrushRequest](c)
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	crush, err := eng.Social.SendCrush(c.Request().Context(), user.ID, reqBody)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.CrushResponse]{
		Message: "Crush sent",
		Data:    *crush,
	})
}

func GuessCrushHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	crushID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	reqBody, err := http_util.Decode[entity.GuessCrushRequest](c)
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	result, err := eng.Social.GuessCrush(c.Request().Context(), user.ID, uint(crushID), reqBody)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.GuessCrushResponse]{
		Message: "Guess recorded",
		Data:    *result,
	})
}

func ListAdmirersHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	admirers, err := eng.Social.Admirers(c.Request().Context(), user.ID)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.AdmirerListResponse]{
		Message: "Admirers fetched successfully",
		Data:    *admirers,
	})
}

func RevealHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	admirerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	reveal, err := eng.Social.Reveal(c.Request().Context(), user.ID, uint(admirerID))
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.RevealResponse]{
		Message: "Admirer revealed",
		Data:    *reveal,
	})
}

func LikeAdmirerHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	admirerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	resp, err := eng.Social.LikeAdmirer(c.Request().Context(), user.ID, uint(admirerID))
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.SwipeResponse]{
		Message: "Swipe outcome",
		Data:    *resp,
	})
}

func PassAdmirerHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	admirerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	resp, err := eng.Social.PassAdmirer(c.Request().Context(), user.ID, uint(admirerID))
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.SwipeResponse]{
		Message: "Swipe outcome",
		Data:    *resp,
	})
}

func ReportHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	reqBody, err := http_util.Decode[entity.ReportRequest](c)
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if err := eng.Social.Report(c.Request().Context(), user.ID, uint(targetID), reqBody); err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, map[string]string{"message": "Report submitted"})
}
