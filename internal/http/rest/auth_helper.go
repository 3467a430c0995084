package rest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ekermen/crowdcheck/internal/model"
	"github.com/ekermen/crowdcheck/util"
	"github.com/ekermen/crowdcheck/util/values"
	"github.com/golang-jwt/jwt"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type TokenClaims struct {
	UserID string `json:"sub"`
	Type   string `json:"typ"`
	Exp    int64  `json:"exp"`
}

// Simplified token creation
func (api *API) createToken(id string) (string, time.Time, error) {
	exp_time, err := time.ParseDuration(api.Config.JwtExpires)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(exp_time)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id, // subject (user ID)
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
		"typ": "access",
	})

	tokenString, err := token.SignedString([]byte(api.Config.JwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (api *API) createRefreshToken(id string) (string, time.Time, error) {
	exp_time, err := time.ParseDuration(api.Config.RefreshExpiry)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(exp_time)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id, // subject (user ID)
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
		"typ": "refresh",
	})

	tokenString, err := token.SignedString([]byte(api.Config.RefreshSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (api *API) CreateNewUser(ctx context.Context, req model.RegisterRequest) (model.VerifyCodeResponse, string, string, error) {
	req.Email = strings.Trim(req.Email, " ")

	if err := util.ValidateStruct(req); err != nil {
		return model.VerifyCodeResponse{}, values.BadRequestBody, "Invalid registration details", err
	}

	exists, err := api.EmailExists(ctx, req.Email)
	if err != nil {
		return model.VerifyCodeResponse{}, values.Error, "Error checking email", err
	}

	if exists {
		return model.VerifyCodeResponse{}, values.Conflict, "Email already exists", nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.VerifyCodeResponse{}, values.Error, "Error hashing password", err
	}
	passwordHash := string(hash)

	user := model.User{
		ID:           util.GenerateUUID(),
		Email:        req.Email,
		PasswordHash: &passwordHash,
		AuthProvider: "email",
	}
	if req.FirstName != "" {
		user.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		user.LastName = &req.LastName
	}

	code := util.GenerateVerificationCode()
	expiresAt := time.Now().Add(1 * time.Hour) // Code expires in 1 hour

	// User row and pending code land together or not at all.
	err = api.Deps.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := api.CreateNewUserRepo(ctx, tx, user); err != nil {
			return err
		}
		return api.StoreVerificationCode(ctx, tx, user.ID.String(), user.Email, code, "register", expiresAt)
	})
	if err != nil {
		return model.VerifyCodeResponse{}, values.Error, "Error creating new user", err
	}

	go func() {
		emailData := map[string]interface{}{
			"Code": code,
		}

		if err := api.Mailer.Send(user.Email, emailData, "verifyEmail.tmpl"); err != nil {
			log.Println(values.Error, "Failed to send verification email", err)
		}
	}()

	resp := model.VerifyCodeResponse{
		ID:    user.ID.String(),
		Email: user.Email,
	}

	return resp, values.Created, "User created successfully", nil
}

func (api *API) LoginUser(ctx context.Context, req model.LoginRequest) (model.LoginResponse, string, string, error) {
	req.Email = strings.Trim(req.Email, " ")

	if err := util.ValidateStruct(req); err != nil {
		return model.LoginResponse{}, values.BadRequestBody, "Invalid login details", err
	}

	user, err := api.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return model.LoginResponse{}, values.NotFound, "User not found", err
	}

	if user.PasswordHash == nil {
		return model.LoginResponse{}, values.NotAllowed, "Account uses Google sign-in", fmt.Errorf("no password set for %s account", user.AuthProvider)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "Invalid email or password", err
	}

	if !user.IsVerified {
		return model.LoginResponse{}, values.NotAllowed, "Email not verified", fmt.Errorf("user %s not verified", user.ID)
	}

	return api.buildLoginResponse(user)
}

func (api *API) VerifyCodeHelper(ctx context.Context, req model.VerifyCodeRequest) (model.LoginResponse, string, string, error) {
	if err := util.ValidEmail(req.Email); err != nil {
		return model.LoginResponse{}, values.BadRequestBody, "Invalid email format", err
	}

	if len(req.Code) != 4 {
		return model.LoginResponse{}, values.BadRequestBody, "Invalid verification code format", fmt.Errorf("code must be 4 digits")
	}

	userID, err := api.VerifyCodeRepo(ctx, req.Code, req.Type, req.Email)
	if err != nil {
		log.Println("Error verifying code", err)
		return model.LoginResponse{}, values.NotAuthorised, "Invalid or expired verification code", err
	}

	if req.Type == "register" {
		if err := api.UpdateEmailVerifiedStatus(ctx, userID); err != nil {
			return model.LoginResponse{}, values.Error, "Failed to update email verification status", err
		}
	}

	user, err := api.GetUserByID(ctx, userID)
	if err != nil {
		return model.LoginResponse{}, values.Error, "Failed to retrieve user", err
	}
	user.IsVerified = true

	resp, status, message, err := api.buildLoginResponse(user)
	if err != nil {
		return resp, status, message, err
	}
	return resp, values.Success, "Verification successful", nil
}

func (api *API) ResendVerificationCode(ctx context.Context, req model.ResendCodeRequest) (string, string, error) {
	req.Email = strings.Trim(req.Email, " ")

	if err := util.ValidEmail(req.Email); err != nil {
		return values.NotAllowed, "Invalid email address provided", err
	}

	user, err := api.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return values.NotFound, "User not found", err
	}

	code := util.GenerateVerificationCode()
	expiresAt := time.Now().Add(1 * time.Hour) // Code expires in 1 hour
	err = api.StoreVerificationCode(ctx, nil, user.ID.String(), user.Email, code, "register", expiresAt)
	if err != nil {
		return values.Error, "Failed to store verification code", err
	}
	go func() {
		emailData := map[string]interface{}{
			"Name": user.FirstName,
			"Code": code,
		}
		if err := api.Mailer.Send(user.Email, emailData, "verifyEmail.tmpl"); err != nil {
			log.Println(values.Error, "Failed to send verification email", err)
		}
	}()

	return values.Success, "Verification code sent", nil
}

func (api *API) RefreshTokenHelper(req model.RefreshTokenRequest) (model.LoginResponse, string, string, error) {
	claims, err := api.verifyToken(req.RefreshToken, true)
	if err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "Invalid refresh token", err
	}

	user, err := api.GetUserByID(context.TODO(), claims.UserID)
	if err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "User not found", err
	}

	return api.buildLoginResponse(user)
}

func (api *API) buildLoginResponse(user model.User) (model.LoginResponse, string, string, error) {
	token, _, err := api.createToken(user.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, fmt.Sprintf("%s [CrTk]", values.SystemErr), err
	}

	refreshToken, _, err := api.createRefreshToken(user.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, fmt.Sprintf("%s [CrRfTk]", values.SystemErr), err
	}

	resp := model.LoginResponse{
		User: &model.LoginUserResponse{
			ID:         user.ID,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			Email:      user.Email,
			IsVerified: user.IsVerified,
		},
		Token:        token,
		RefreshToken: refreshToken,
	}
	return resp, values.Success, "Login successful", nil
}
