package httpapi

import (
	"encoding/json"
	"net/http"

	ftauth "github.com/mrra1yan/FootballTalento"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return false
	}
	return true
}

type registerRequest struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	AccountType   string `json:"accountType"`
	Country       string `json:"country"`
	Currency      string `json:"currency"`
	Language      string `json:"language"`
	ParentConsent bool   `json:"parentConsent"`
	WebsiteURL    string `json:"website_url"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.engine.Register(r.Context(), ftauth.RegisterInput{
		FullName:      req.FullName,
		Email:         req.Email,
		Password:      req.Password,
		AccountType:   req.AccountType,
		Country:       req.Country,
		Currency:      req.Currency,
		Language:      req.Language,
		ParentConsent: req.ParentConsent,
		Honeypot:      req.WebsiteURL,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeSuccess(w, "Registration successful. Please check your email to verify your account.", map[string]any{
		"user_id":      result.Account.ID,
		"username":     result.Account.Username,
		"email":        result.Account.Email,
		"display_name": result.Account.DisplayName,
		"unverified":   result.Unverified,
	})
}

type loginRequest struct {
	EmailUsername string `json:"emailUsername"`
	Password      string `json:"password"`
	Remember      bool   `json:"remember"`
	WebsiteURL    string `json:"website_url"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.engine.Login(r.Context(), ftauth.LoginInput{
		Identifier: req.EmailUsername,
		Password:   req.Password,
		Remember:   req.Remember,
		Honeypot:   req.WebsiteURL,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeSuccess(w, "Login successful", map[string]any{
		"user_id":      result.Account.ID,
		"username":     result.Account.Username,
		"email":        result.Account.Email,
		"display_name": result.Account.DisplayName,
		"account_type": result.Account.Type,
		"country":      result.Account.Country,
		"currency":     result.Account.Currency,
		"token":        result.Token,
	})
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.engine.Logout(r.Context(), req.Token); err != nil {
		writeEngineError(w, err)
		return
	}

	writeSuccess(w, "Logout successful", nil)
}

func (s *Server) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := s.engine.ValidateToken(r.Context(), req.Token)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeSuccess(w, "", account)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.engine.ForgotPassword(r.Context(), req.Email); err != nil {
		writeEngineError(w, err)
		return
	}

	writeSuccess(w, "If an account exists with this email, you will receive password reset instructions", nil)
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.engine.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeEngineError(w, err)
		return
	}

	writeSuccess(w, "Password has been reset successfully", nil)
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := s.engine.VerifyEmail(r.Context(), req.Token); err != nil {
		writeEngineError(w, err)
		return
	}

	writeSuccess(w, "Email verified successfully. You can now login.", nil)
}
