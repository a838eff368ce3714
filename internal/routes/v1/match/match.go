package routesV1Match

import (
	"net/http"
	"strconv"

	"github.com/campuscrush/app/internal/engine"
	"github.com/campuscrush/app/internal/entity"
	authUseCase "github.com/campuscrush/app/internal/usecase/auth"
	"github.com/campuscrush/app/pkg/http_util"
	"github.com/labstack/echo"
)

func LikeHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	resp, err := eng.Swipes.SwipeRight(c.Request().Context(), user.ID, uint(targetID))
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.SwipeResponse]{
		Message: "Swipe outcome",
		Data:    *resp,
	})
}

func PassHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	resp, err := eng.Swipes.SwipeLeft(c.Request().Context(), user.ID, uint(targetID))
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.SwipeResponse]{
		Message: "Swipe outcome",
		Data:    *resp,
	})
}

func ListMatchesHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	if err := eng.Conversations.RefreshMatches(c.Request().Context(), user.ID); err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[[]entity.MatchSummary]{
		Message: "Matches fetched successfully",
		Data:    eng.Conversations.Matches(user.ID),
	})
}

func OpenConversationHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	matchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	conv, err := eng.Conversations.Open(c.Request().Context(), user.ID, uint(matchID))
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.ConversationResponse]{
		Message: "Conversation opened",
		Data:    *conv,
	})
}

func LoadMoreHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	matchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	conv, err := eng.Conversations.LoadMore(c.Request().Context(), user.ID, uint(matchID))
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.ConversationResponse]{
		Message: "Older messages fetched",
		Data:    *conv,
	})
}

func SendMessageHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	matchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	reqBody, err := http_util.Decode[entity.SendMessageRequest](c)
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	conv, err := eng.Conversations.Send(c.Request().Context(), user.ID, uint(matchID), reqBody)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.ConversationResponse]{
		Message: "Message sent",
		Data:    *conv,
	})
}

func MarkReadHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	matchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if err := eng.Conversations.MarkRead(c.Request().Context(), user.ID, uint(matchID)); err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, map[string]string{"message": "Conversation marked read"})
}

func CloseConversationHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	matchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	eng.Conversations.Close(user.ID, uint(matchID))
	return http_util.Encode(c, http.StatusOK, map[string]string{"message": "Conversation closed"})
}

func UnmatchHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	matchID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if err := eng.Conversations.Unmatch(c.Request().Context(), user.ID, uint(matchID)); err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, map[string]string{"message": "Unmatched"})
}

func BlockHandler(c echo.Context, eng *engine.Engine, authCase authUseCase.IAuthUseCase) error {
	user, err := authCase.GetUserFromJWTRequest(c)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if err := eng.Conversations.Block(c.Request().Context(), user.ID, uint(targetID)); err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, map[string]string{"message": "User blocked"})
}
