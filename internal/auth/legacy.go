package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ==================== 本地兼容验签路径 ====================

// LegacyConfig 兼容路径配置
// 与主验签器的信任材料完全隔离：独立密钥，不做远端拉取
type LegacyConfig struct {
	SecretKey       string        // 本地签名密钥
	AccessTokenTTL  time.Duration // Access Token 有效期
	RefreshTokenTTL time.Duration // Refresh Token 有效期
	Issuer          string        // 签发者
}

// DefaultLegacyConfig 默认配置
func DefaultLegacyConfig() *LegacyConfig {
	return &LegacyConfig{
		SecretKey:       "multishop-legacy-secret-change-in-production",
		AccessTokenTTL:  2 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "multishop",
	}
}

// LegacyClaims 本地凭证声明
type LegacyClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// LegacyVerifier 本地兼容验签器
// 仅在兼容开关打开时由上层装配，默认不可达
type LegacyVerifier struct {
	cfg *LegacyConfig
}

// NewLegacyVerifier 创建兼容验签器
func NewLegacyVerifier(cfg *LegacyConfig) *LegacyVerifier {
	return &LegacyVerifier{cfg: cfg}
}

// ==================== Token 生成 ====================

// GenerateAccessToken 生成 Access Token
func (v *LegacyVerifier) GenerateAccessToken(userID int64, email, role string) (string, error) {
	return v.generate(userID, email, role, "access", v.cfg.AccessTokenTTL)
}

// GenerateRefreshToken 生成 Refresh Token
func (v *LegacyVerifier) GenerateRefreshToken(userID int64, email, role string) (string, error) {
	return v.generate(userID, email, role, "refresh", v.cfg.RefreshTokenTTL)
}

// GenerateTokenPair 生成 Token 对
func (v *LegacyVerifier) GenerateTokenPair(userID int64, email, role string) (accessToken, refreshToken string, err error) {
	accessToken, err = v.GenerateAccessToken(userID, email, role)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = v.GenerateRefreshToken(userID, email, role)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (v *LegacyVerifier) generate(userID int64, email, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &LegacyClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.cfg.Issuer,
			Subject:   tokenType,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(v.cfg.SecretKey))
}

// ==================== Token 解析 ====================

// ParseToken 解析本地凭证
func (v *LegacyVerifier) ParseToken(tokenString string) (*LegacyClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &LegacyClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(v.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*LegacyClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Verify 校验 Access Token，产出统一的 VerifiedClaims
// Refresh Token 在这里会被拒绝
func (v *LegacyVerifier) Verify(tokenString string) (*VerifiedClaims, error) {
	claims, err := v.ParseToken(tokenString)
	if err != nil {
		return nil, ErrInvalidCredential
	}
	// 只有 Access Token 能过认证
	if claims.Subject != "access" {
		return nil, ErrInvalidCredential
	}

	return &VerifiedClaims{
		Path:      TrustLegacy,
		Email:     claims.Email,
		Issuer:    claims.Issuer,
		ExpiresAt: claims.ExpiresAt.Time,
		Raw: jwt.MapClaims{
			"user_id": claims.UserID,
			"email":   claims.Email,
			"role":    claims.Role,
		},
	}, nil
}
