package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ekermen/crowdcheck/internal/model"
	"github.com/ekermen/crowdcheck/util"
	"github.com/ekermen/crowdcheck/util/tracing"
	"github.com/ekermen/crowdcheck/util/values"
	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

func (api *API) AuthRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodPost, "/register", Handler(api.Register))
	mux.Method(http.MethodPost, "/login", Handler(api.Login))
	mux.Method(http.MethodPost, "/verify", Handler(api.VerifyCode))
	mux.Method(http.MethodPost, "/resend", Handler(api.ResendCode))
	mux.Method(http.MethodPost, "/refresh", Handler(api.RefreshToken))
	mux.Method(http.MethodPost, "/google", Handler(api.GoogleSignIn))
	return mux
}

func (api *API) Register(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.RegisterRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.CreateNewUser(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) Login(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.LoginRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.LoginUser(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) VerifyCode(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.VerifyCodeRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.VerifyCodeHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) ResendCode(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.ResendCodeRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	status, message, err := api.ResendVerificationCode(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func (api *API) RefreshToken(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.RefreshTokenRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.RefreshTokenHelper(req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

// shouldCreateAccount reports whether a sign-in lookup failure means the
// account simply does not exist yet, as opposed to the store being
// unreachable.
func shouldCreateAccount(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleSignIn accepts either a Google ID token (preferred) or an OAuth
// access token, verifies it, and creates the account on first sign-in.
func (api *API) GoogleSignIn(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.GoogleAuthRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	var info googleUserInfo
	switch {
	case req.IDToken != "":
		payload, err := idtoken.Validate(r.Context(), req.IDToken, api.Config.GoogleClientID)
		if err != nil {
			return respondWithError(err, "invalid Google ID token", values.NotAuthorised, &tc)
		}
		info.Email, _ = payload.Claims["email"].(string)
		info.VerifiedEmail, _ = payload.Claims["email_verified"].(bool)
		info.GivenName, _ = payload.Claims["given_name"].(string)
		info.FamilyName, _ = payload.Claims["family_name"].(string)

	case req.AccessToken != "":
		userInfo, err := api.fetchGoogleUserInfo(r.Context(), req.AccessToken)
		if err != nil {
			return respondWithError(err, "failed to get user info", values.NotAuthorised, &tc)
		}
		info = *userInfo

	default:
		return respondWithError(nil, "missing id_token or access_token", values.BadRequestBody, &tc)
	}

	if info.Email == "" {
		return respondWithError(nil, "Google account has no email", values.NotAuthorised, &tc)
	}

	user, err := api.GetUserByEmail(r.Context(), info.Email)
	if err != nil {
		if !shouldCreateAccount(err) {
			return respondWithError(err, "failed to look up user", values.Error, &tc)
		}

		// First sign-in: create the account.
		user = model.User{
			ID:           util.GenerateUUID(),
			Email:        info.Email,
			AuthProvider: "google",
			IsVerified:   info.VerifiedEmail,
		}
		if info.GivenName != "" {
			user.FirstName = &info.GivenName
		}
		if info.FamilyName != "" {
			user.LastName = &info.FamilyName
		}
		if createErr := api.CreateNewUserRepo(r.Context(), nil, user); createErr != nil {
			return respondWithError(createErr, "failed to create new user", values.Error, &tc)
		}
	}

	resp, status, message, err := api.buildLoginResponse(user)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    "Signed in with Google",
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) fetchGoogleUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	oauthConfig := &oauth2.Config{
		ClientID:     api.Config.GoogleClientID,
		ClientSecret: api.Config.GoogleClientSecret,
		RedirectURL:  api.Config.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{AccessToken: accessToken}
	client := oauthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
