package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/zaehlio/utility-ocr-service/internal/db"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	TenantAlias string `json:"tenant_alias"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	TenantAlias string `json:"tenant_alias"`
	TenantName  string `json:"tenant_name"`
}

// LoginHandler handles user authentication
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if req.TenantAlias == "" || req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"tenant_alias, email and password are required"}`, http.StatusBadRequest)
		return
	}

	if db.Pool == nil {
		http.Error(w, `{"error":"authentication unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Credential verification lives in the database so the password hash
	// never crosses the wire.
	query := `SELECT user_id, email, name, role, tenant_alias, tenant_name
             FROM public.verify_login($1, $2, $3)`

	var userID, email, name, role, tenantAlias, tenantName string
	err := db.Pool.QueryRow(ctx, query, req.TenantAlias, req.Email, req.Password).Scan(
		&userID, &email, &name, &role, &tenantAlias, &tenantName,
	)

	if err != nil {
		// No user found or wrong password
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	token, err := GenerateToken(userID, email, tenantAlias, tenantName, role)
	if err != nil {
		http.Error(w, `{"error":"failed to generate token"}`, http.StatusInternalServerError)
		return
	}

	// Update last login in background
	go func() {
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		db.Pool.Exec(ctx2, "SELECT public.record_login($1, $2::uuid)", tenantAlias, userID)
	}()

	json.NewEncoder(w).Encode(LoginResponse{
		Token:       token,
		UserID:      userID,
		Email:       email,
		Name:        name,
		Role:        role,
		TenantAlias: tenantAlias,
		TenantName:  tenantName,
	})
}
