package http

import (
	"log/slog"
	"net/http"

	"employee-auth/internal/dto"
	"employee-auth/internal/netutil"
	obsmw "employee-auth/internal/observability/middleware"
	"employee-auth/internal/service"
)

type authHandler struct {
	auth service.AuthService
}

func (h *authHandler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.logFailure(r, "login failed", req.Email, err)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *authHandler) verifyOtp(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyOtpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.auth.VerifyOtp(r.Context(), req)
	if err != nil {
		h.logFailure(r, "otp verification failed", req.Email, err)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *authHandler) resendOtp(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendOtpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.auth.ResendOtp(r.Context(), req); err != nil {
		h.logFailure(r, "otp resend failed", req.Email, err)
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "A new verification code was sent to your email")
}

func (h *authHandler) logFailure(r *http.Request, msg, email string, err error) {
	slog.Warn(msg, "email", email, "error", err,
		"client_ip", netutil.ClientIP(r),
		"user_agent", netutil.TruncateUserAgent(r.UserAgent()),
		"request_id", obsmw.RequestIDFromContext(r.Context()),
		"trace_id", obsmw.TraceIDFromContext(r.Context()),
	)
}
