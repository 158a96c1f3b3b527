package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

var (
	ErrTicketInvalid  = errors.New("seat ticket is invalid")
	ErrTicketMismatch = errors.New("seat ticket was issued for another user or match")
)

// TicketClaims is what a verified seat ticket grants.
type TicketClaims struct {
	UserID  string
	MatchID string
	GameID  string
	Expires time.Time
}

// TicketService signs and verifies seat tickets: short-lived HS256 tokens that
// bind one user to the human seat of one match.
type TicketService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTicketService(secret, issuer string, ttl time.Duration) *TicketService {
	return &TicketService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed ticket for user to take the human seat of matchID.
func (s *TicketService) Issue(userID, matchID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("ticket service is nil")
	}
	if userID == "" || matchID == "" {
		return "", fmt.Errorf("user and match are required")
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("ticket secret is not configured")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": userID,
		"mid": matchID,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature, expiry and issuer of ticket and that it was
// issued to userID for matchID.
func (s *TicketService) Verify(ticket, userID, matchID string) (TicketClaims, error) {
	parser := &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}, SkipClaimsValidation: true}
	token, err := parser.Parse(ticket, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return TicketClaims{}, fmt.Errorf("%w: %v", ErrTicketInvalid, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TicketClaims{}, ErrTicketInvalid
	}

	now := s.now().Unix()
	if !claims.VerifyExpiresAt(now, true) {
		return TicketClaims{}, fmt.Errorf("%w: expired", ErrTicketInvalid)
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return TicketClaims{}, fmt.Errorf("%w: wrong issuer", ErrTicketInvalid)
	}

	out := TicketClaims{
		UserID:  stringClaim(claims, "sub"),
		MatchID: stringClaim(claims, "mid"),
		GameID:  stringClaim(claims, "jti"),
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.Expires = time.Unix(int64(exp), 0)
	}
	if out.UserID != userID || out.MatchID != matchID {
		return out, ErrTicketMismatch
	}
	return out, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	v, _ := claims[name].(string)
	return v
}
