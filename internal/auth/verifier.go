package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ==================== 信任路径 ====================

// TrustPath 凭证通过哪条信任路径完成验签
// 后续的身份解析按该标记分派，不再散落 if 判断
type TrustPath int

const (
	// TrustSharedSecret 共享密钥对称验签
	TrustSharedSecret TrustPath = iota + 1
	// TrustRemoteKey 远端 JWKS 非对称验签
	TrustRemoteKey
	// TrustLegacy 本地兼容路径，独立密钥
	TrustLegacy
)

// String 信任路径名称
func (p TrustPath) String() string {
	switch p {
	case TrustSharedSecret:
		return "shared_secret"
	case TrustRemoteKey:
		return "remote_key"
	case TrustLegacy:
		return "legacy"
	}
	return "unknown"
}

// VerifiedClaims 验签通过后的声明
// 只在单个请求生命周期内有效，不落库
type VerifiedClaims struct {
	Path      TrustPath
	Subject   string
	Email     string
	Issuer    string
	ExpiresAt time.Time
	Raw       jwt.MapClaims
}

// ==================== TokenVerifier 主验签器 ====================

// VerifierConfig 主验签器配置
type VerifierConfig struct {
	// SharedSecret 共享验签密钥，配置后优先尝试对称验签
	SharedSecret string
	// IssuerURL 身份提供商基地址，JWKS 从其发现端点拉取
	IssuerURL string
	// ExpectedIssuer 期望的 iss，为空则不校验
	ExpectedIssuer string
}

// TokenVerifier 主验签器
// 先走共享密钥，失败或未配置时回落到远端公钥集
// 两条路径都不可用时请求按未认证处理
type TokenVerifier struct {
	cfg  *VerifierConfig
	jwks *JWKSProvider
}

// NewTokenVerifier 创建主验签器
func NewTokenVerifier(cfg *VerifierConfig, jwks *JWKSProvider) *TokenVerifier {
	return &TokenVerifier{cfg: cfg, jwks: jwks}
}

// Verify 验签 bearer 凭证
func (v *TokenVerifier) Verify(ctx context.Context, tokenString string) (*VerifiedClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidCredential
	}

	// 1. 共享密钥路径
	if v.cfg.SharedSecret != "" {
		if claims, err := v.verifyShared(tokenString); err == nil {
			return claims, nil
		}
		// 对称验签失败继续尝试远端公钥，支持从共享密钥迁移到轮换密钥
	}

	// 2. 远端公钥路径
	if v.cfg.IssuerURL != "" {
		if claims, err := v.verifyRemote(ctx, tokenString); err == nil {
			return claims, nil
		}
	}

	return nil, ErrInvalidCredential
}

// verifyShared 共享密钥对称验签 (HS256)
func (v *TokenVerifier) verifyShared(tokenString string) (*VerifiedClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(v.cfg.SharedSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredential
	}
	return buildClaims(TrustSharedSecret, token)
}

// verifyRemote 远端公钥非对称验签 (RS256)
func (v *TokenVerifier) verifyRemote(ctx context.Context, tokenString string) (*VerifiedClaims, error) {
	keyfunc := func(t *jwt.Token) (interface{}, error) {
		ks, err := v.jwks.Get(ctx, v.cfg.IssuerURL)
		if err != nil {
			return nil, err
		}
		if kid, _ := t.Header["kid"].(string); kid != "" {
			if pub, ok := ks.ByKID(kid); ok {
				return pub, nil
			}
			return nil, ErrInvalidCredential
		}
		// 没带 kid 且只有一把键时直接使用
		if ks.Len() == 1 {
			pub, _ := ks.Any()
			return pub, nil
		}
		return nil, ErrInvalidCredential
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256"})}
	if v.cfg.ExpectedIssuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.ExpectedIssuer))
	}

	token, err := jwt.Parse(tokenString, keyfunc, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredential
	}
	return buildClaims(TrustRemoteKey, token)
}

// buildClaims 从解析结果提取标准声明
func buildClaims(path TrustPath, token *jwt.Token) (*VerifiedClaims, error) {
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredential
	}

	out := &VerifiedClaims{Path: path, Raw: mapClaims}
	out.Subject, _ = mapClaims["sub"].(string)
	out.Email, _ = mapClaims["email"].(string)
	out.Issuer, _ = mapClaims["iss"].(string)
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
