package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/authmobile/authserver/internal/common"
	"github.com/authmobile/authserver/internal/server/models"
	"github.com/authmobile/authserver/internal/server/services"
)

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// loginResponse flattens the token and the public profile, matching what the
// web and mobile clients expect.
type loginResponse struct {
	Token string `json:"token"`
	models.Profile
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "Invalid request body"})
		return
	}

	user, err := s.service.Register(r.Context(), services.RegisterRequest{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeJSON(w, statusFor(err), ApiResponse{Success: false, Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "User registered successfully",
		Data:    user.Profile(),
	})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "Invalid request body"})
		return
	}

	token, user, err := s.service.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		writeJSON(w, statusFor(err), ApiResponse{Success: false, Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Login successful",
		Data:    loginResponse{Token: token, Profile: user.Profile()},
	})
}

func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request) {
	username, ok := UsernameFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ApiResponse{Success: false, Message: "Unauthorized"})
		return
	}

	user, err := s.service.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeJSON(w, http.StatusNotFound, ApiResponse{Success: false, Message: "User not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ApiResponse{Success: false, Message: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "User retrieved successfully",
		Data:    user.Profile(),
	})
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "ok"})
}

// statusFor keeps the response envelope's success flag authoritative:
// expected business failures travel as 200 + success=false (the shape the
// existing clients parse), while infrastructure failures surface as 500.
func statusFor(err error) int {
	if errors.Is(err, common.ErrorInternal) {
		return http.StatusInternalServerError
	}
	return http.StatusOK
}
