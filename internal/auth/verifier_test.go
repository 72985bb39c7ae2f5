package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signHS256 用共享密钥签发测试凭证
func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("签发测试凭证失败: %v", err)
	}
	return signed
}

func TestTokenVerifier_SharedSecret(t *testing.T) {
	verifier := NewTokenVerifier(&VerifierConfig{SharedSecret: "test-secret"}, NewJWKSProvider())

	t.Run("验签通过", func(t *testing.T) {
		token := signHS256(t, "test-secret", jwt.MapClaims{
			"sub":   "ext-user-1",
			"email": "alice@example.com",
			"iss":   "https://id.example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		claims, err := verifier.Verify(context.Background(), token)
		if err != nil {
			t.Fatalf("验签失败: %v", err)
		}
		if claims.Path != TrustSharedSecret {
			t.Errorf("信任路径错误: got %s", claims.Path)
		}
		if claims.Subject != "ext-user-1" {
			t.Errorf("subject 提取错误: got %s", claims.Subject)
		}
		if claims.Email != "alice@example.com" {
			t.Errorf("email 提取错误: got %s", claims.Email)
		}
	})

	t.Run("密钥不匹配", func(t *testing.T) {
		token := signHS256(t, "wrong-secret", jwt.MapClaims{
			"sub": "ext-user-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		if _, err := verifier.Verify(context.Background(), token); err != ErrInvalidCredential {
			t.Errorf("期望 ErrInvalidCredential, got %v", err)
		}
	})

	t.Run("过期凭证", func(t *testing.T) {
		token := signHS256(t, "test-secret", jwt.MapClaims{
			"sub": "ext-user-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		if _, err := verifier.Verify(context.Background(), token); err != ErrInvalidCredential {
			t.Errorf("期望 ErrInvalidCredential, got %v", err)
		}
	})

	t.Run("空凭证", func(t *testing.T) {
		if _, err := verifier.Verify(context.Background(), ""); err != ErrInvalidCredential {
			t.Errorf("期望 ErrInvalidCredential, got %v", err)
		}
	})
}

// newJWKSServer 起一个返回单把 RSA 公钥的 JWKS 端点
func newJWKSServer(t *testing.T, kid string, pub *rsa.PublicKey) *httptest.Server {
	t.Helper()
	doc := map[string]interface{}{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": kid,
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/jwks.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(doc)
	}))
}

func TestTokenVerifier_RemoteKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("生成 RSA 密钥失败: %v", err)
	}

	server := newJWKSServer(t, "k1", &key.PublicKey)
	defer server.Close()

	signRS256 := func(kid string, claims jwt.MapClaims) string {
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		if kid != "" {
			token.Header["kid"] = kid
		}
		signed, err := token.SignedString(key)
		if err != nil {
			t.Fatalf("RS256 签发失败: %v", err)
		}
		return signed
	}

	t.Run("按kid验签通过", func(t *testing.T) {
		verifier := NewTokenVerifier(&VerifierConfig{
			IssuerURL:      server.URL,
			ExpectedIssuer: server.URL,
		}, NewJWKSProvider())

		token := signRS256("k1", jwt.MapClaims{
			"sub":   "ext-user-2",
			"email": "bob@example.com",
			"iss":   server.URL,
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		claims, err := verifier.Verify(context.Background(), token)
		if err != nil {
			t.Fatalf("远端公钥验签失败: %v", err)
		}
		if claims.Path != TrustRemoteKey {
			t.Errorf("信任路径错误: got %s", claims.Path)
		}
		if claims.Subject != "ext-user-2" {
			t.Errorf("subject 提取错误: got %s", claims.Subject)
		}
	})

	t.Run("无kid单键回落", func(t *testing.T) {
		verifier := NewTokenVerifier(&VerifierConfig{IssuerURL: server.URL}, NewJWKSProvider())

		token := signRS256("", jwt.MapClaims{
			"sub": "ext-user-3",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		if _, err := verifier.Verify(context.Background(), token); err != nil {
			t.Errorf("单键回落验签失败: %v", err)
		}
	})

	t.Run("未知kid拒绝", func(t *testing.T) {
		verifier := NewTokenVerifier(&VerifierConfig{IssuerURL: server.URL}, NewJWKSProvider())

		token := signRS256("unknown-kid", jwt.MapClaims{
			"sub": "ext-user-4",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		if _, err := verifier.Verify(context.Background(), token); err != ErrInvalidCredential {
			t.Errorf("期望 ErrInvalidCredential, got %v", err)
		}
	})

	t.Run("iss不匹配拒绝", func(t *testing.T) {
		verifier := NewTokenVerifier(&VerifierConfig{
			IssuerURL:      server.URL,
			ExpectedIssuer: "https://other-issuer.example.com",
		}, NewJWKSProvider())

		token := signRS256("k1", jwt.MapClaims{
			"sub": "ext-user-5",
			"iss": server.URL,
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		if _, err := verifier.Verify(context.Background(), token); err != ErrInvalidCredential {
			t.Errorf("期望 ErrInvalidCredential, got %v", err)
		}
	})

	t.Run("共享密钥失败后回落远端", func(t *testing.T) {
		verifier := NewTokenVerifier(&VerifierConfig{
			SharedSecret: "some-secret",
			IssuerURL:    server.URL,
		}, NewJWKSProvider())

		token := signRS256("k1", jwt.MapClaims{
			"sub": "ext-user-6",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		claims, err := verifier.Verify(context.Background(), token)
		if err != nil {
			t.Fatalf("回落远端验签失败: %v", err)
		}
		if claims.Path != TrustRemoteKey {
			t.Errorf("信任路径错误: got %s", claims.Path)
		}
	})
}

func TestLegacyVerifier(t *testing.T) {
	cfg := DefaultLegacyConfig()
	cfg.SecretKey = "legacy-test-secret"
	verifier := NewLegacyVerifier(cfg)

	t.Run("AccessToken通过", func(t *testing.T) {
		token, err := verifier.GenerateAccessToken(42, "carol@example.com", "customer")
		if err != nil {
			t.Fatalf("签发失败: %v", err)
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			t.Fatalf("验签失败: %v", err)
		}
		if claims.Path != TrustLegacy {
			t.Errorf("信任路径错误: got %s", claims.Path)
		}
		if claims.Email != "carol@example.com" {
			t.Errorf("email 错误: got %s", claims.Email)
		}
		if claims.Raw["user_id"] != int64(42) {
			t.Errorf("user_id 错误: got %v", claims.Raw["user_id"])
		}
	})

	t.Run("RefreshToken拒绝", func(t *testing.T) {
		token, err := verifier.GenerateRefreshToken(42, "carol@example.com", "customer")
		if err != nil {
			t.Fatalf("签发失败: %v", err)
		}

		if _, err := verifier.Verify(token); err != ErrInvalidCredential {
			t.Errorf("期望 ErrInvalidCredential, got %v", err)
		}
	})

	t.Run("密钥隔离", func(t *testing.T) {
		other := NewLegacyVerifier(DefaultLegacyConfig())
		token, err := other.GenerateAccessToken(42, "carol@example.com", "customer")
		if err != nil {
			t.Fatalf("签发失败: %v", err)
		}

		if _, err := verifier.Verify(token); err != ErrInvalidCredential {
			t.Errorf("期望 ErrInvalidCredential, got %v", err)
		}
	})
}
