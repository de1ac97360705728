package auth

import (
	"atelier-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUserShape is the object stored in session and returned by /me.
type SessionUserShape struct {
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name"`
}

// ProfileFinder abstracts profile lookup by email+password (GORM in
// production, doubles in tests).
type ProfileFinder interface {
	FindByEmailAndPassword(email, password string) (*models.Profile, error)
}

// GormProfileFinder implements ProfileFinder using GORM and bcrypt.
type GormProfileFinder struct{ DB *gorm.DB }

func (g *GormProfileFinder) FindByEmailAndPassword(email, password string) (*models.Profile, error) {
	return LoginProfile(g.DB, LoginInput{Email: email, Password: password})
}

// LoginProfile finds a profile by email and verifies the password. An invited
// client who has not yet set a password has an empty hash and fails closed.
func LoginProfile(db *gorm.DB, input LoginInput) (*models.Profile, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var p models.Profile
	if err := db.Where("email = ?", input.Email).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if p.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &p, nil
}

// VerifyUser validates the session user and returns the shape for /me.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return &SessionUserShape{
		UserID:      userID,
		FullName:    str(m["full_name"]),
		Email:       str(m["email"]),
		Role:        str(m["role"]),
		CompanyName: str(m["company_name"]),
	}, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
