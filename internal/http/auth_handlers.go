package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/amalasyrafInvoke/set-finalproject/internal/auth"
)

// AuthHandler owns the identity endpoints. Everything ledger-related treats
// the user id it issues as an opaque owner id.
type AuthHandler struct {
	DB     *pgxpool.Pool
	Secret []byte
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"`
}

type profileResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	ContactNumber *string `json:"contact_number,omitempty"`
	DOB           *string `json:"dob,omitempty"`
	AccountID     *int64  `json:"account_id,omitempty"`
	AccountNumber *int64  `json:"account_number,omitempty"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if body.Name == "" || body.Email == "" || len(body.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "name, email and a password of at least 6 characters are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	ctx := userContext(c)
	var userID string
	err = h.DB.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		body.Name, body.Email, string(hashed),
	).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fiber.NewError(fiber.StatusConflict, "email already registered")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}

	token, err := auth.GenerateToken(h.Secret, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, TokenType: "bearer"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	var (
		userID       string
		passwordHash string
	)
	err := h.DB.QueryRow(userContext(c),
		`SELECT id, password_hash FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(body.Email)),
	).Scan(&userID, &passwordHash)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(body.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := auth.GenerateToken(h.Secret, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}
	return c.JSON(authResponse{Token: token, TokenType: "bearer"})
}

// UserProfile returns the authenticated user together with their wallet
// account, if one exists.
func (h *AuthHandler) UserProfile(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var (
		p   profileResponse
		dob *time.Time
	)
	err := h.DB.QueryRow(userContext(c),
		`SELECT u.id::text, u.name, u.email, u.contact_number, u.dob, a.id, a.account_number
		 FROM users u
		 LEFT JOIN accounts a ON a.owner_id = u.id
		 WHERE u.id = $1::uuid`,
		userID,
	).Scan(&p.ID, &p.Name, &p.Email, &p.ContactNumber, &dob, &p.AccountID, &p.AccountNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch profile")
	}
	if dob != nil {
		s := dob.Format("2006-01-02")
		p.DOB = &s
	}

	return c.JSON(p)
}

// Refresh reissues a token for the already-authenticated user, pushing the
// expiry window forward. The old token stays valid until it expires.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	token, err := auth.GenerateToken(h.Secret, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}
	return c.JSON(authResponse{Token: token, TokenType: "bearer"})
}

// Logout acknowledges the client discarding its token. Tokens are stateless
// HS256 so there is nothing to revoke server-side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if auth.UserID(c) == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{"message": "successfully logged out"})
}

type updateUserRequest struct {
	ContactNumber string `json:"contact_number"`
	DOB           string `json:"dob"`
}

func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body updateUserRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	body.ContactNumber = strings.TrimSpace(body.ContactNumber)
	if body.ContactNumber == "" || body.DOB == "" {
		return fiber.NewError(fiber.StatusBadRequest, "contact_number and dob are required")
	}
	dob, err := time.Parse("2006-01-02", body.DOB)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "dob must be YYYY-MM-DD")
	}

	tag, err := h.DB.Exec(userContext(c),
		`UPDATE users SET contact_number = $1, dob = $2, updated_at = now() WHERE id = $3::uuid`,
		body.ContactNumber, dob, userID,
	)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update user")
	}
	if tag.RowsAffected() == 0 {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	return c.JSON(fiber.Map{"message": "user updated"})
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
