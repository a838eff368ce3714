package routesV1Auth

import (
	"net/http"

	"github.com/campuscrush/app/internal/entity"
	authUseCase "github.com/campuscrush/app/internal/usecase/auth"
	"github.com/campuscrush/app/pkg/http_util"
	"github.com/labstack/echo"
)

func SignUpHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	reqBody, err := http_util.Decode[entity.SignUpRequest](c)
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	profile, err := authCase.SignUp(c.Request().Context(), reqBody)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.SignUpResponse]{
		Message: "Sign-up successful",
		Data: entity.SignUpResponse{
			ID:    profile.ID,
			Name:  profile.Name,
			Email: profile.Email,
		},
	})
}

func SignInHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	reqBody, err := http_util.Decode[entity.SignInRequest](c)
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if problems := reqBody.Validate(c.Request().Context()); len(problems) > 0 {
		return http_util.Encode(c, http.StatusBadRequest, http_util.HTTPErrorResponse{
			Message:  "Bad request",
			Problems: problems,
		})
	}

	token, err := authCase.SignIn(c.Request().Context(), reqBody.Email, reqBody.Password)
	if err != nil {
		return http_util.Encode(c, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.SignInResponse]{
		Message: "Sign-in successful",
		Data:    entity.SignInResponse{Token: token},
	})
}
