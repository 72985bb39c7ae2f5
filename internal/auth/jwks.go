package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"
)

// ==================== JWKS 远端公钥集 ====================

// jwksDocument JWKS 发现端点的响应体
type jwksDocument struct {
	Keys []jwkEntry `json:"keys"`
}

// jwkEntry 单个 JWK，只关心 RSA 验签需要的字段
type jwkEntry struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// KeySet 解析后的公钥集合，kid -> 公钥
type KeySet struct {
	keys map[string]*rsa.PublicKey
}

// ByKID 按 kid 取公钥
func (s *KeySet) ByKID(kid string) (*rsa.PublicKey, bool) {
	k, ok := s.keys[kid]
	return k, ok
}

// Any 取任意一把公钥，token 头没给 kid 且集合里只有一把时的退路
func (s *KeySet) Any() (*rsa.PublicKey, bool) {
	for _, k := range s.keys {
		return k, true
	}
	return nil, false
}

// Len 公钥数量
func (s *KeySet) Len() int {
	return len(s.keys)
}

// ==================== JWKSProvider 公钥提供器 ====================

// JWKSProvider 按 issuer 拉取并缓存公钥集
// 缓存随进程存活，不做失效处理：密钥轮换需要重启进程
// 这是已接受的陈旧窗口，不是缺陷
type JWKSProvider struct {
	client *resty.Client
	cache  *gocache.Cache
}

// NewJWKSProvider 创建公钥提供器
func NewJWKSProvider() *JWKSProvider {
	return &JWKSProvider{
		client: resty.New(),
		cache:  gocache.New(gocache.NoExpiration, 0),
	}
}

// Get 获取 issuer 的公钥集
// 并发场景下同一 issuer 可能重复拉取一次，以最后写入为准，无需加锁
func (p *JWKSProvider) Get(ctx context.Context, issuer string) (*KeySet, error) {
	if cached, ok := p.cache.Get(issuer); ok {
		return cached.(*KeySet), nil
	}

	url := strings.TrimRight(issuer, "/") + "/.well-known/jwks.json"
	resp, err := p.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("拉取 JWKS 失败: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("JWKS 端点返回异常状态: %d", resp.StatusCode())
	}

	ks, err := parseJWKS(resp.Body())
	if err != nil {
		return nil, err
	}

	p.cache.Set(issuer, ks, gocache.NoExpiration)
	return ks, nil
}

// parseJWKS 解析 JWKS JSON，只收 RSA 签名用途的键
func parseJWKS(raw []byte) (*KeySet, error) {
	var doc jwksDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("JWKS 解析失败: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, entry := range doc.Keys {
		if entry.Kty != "RSA" {
			continue
		}
		if entry.Use != "" && entry.Use != "sig" {
			continue
		}
		pub, err := rsaKeyFromJWK(entry)
		if err != nil {
			// 单个坏键不拖垮整个集合
			continue
		}
		keys[entry.Kid] = pub
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("JWKS 中没有可用的 RSA 公钥")
	}
	return &KeySet{keys: keys}, nil
}

// rsaKeyFromJWK 从 n/e 还原 RSA 公钥
func rsaKeyFromJWK(entry jwkEntry) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(entry.N)
	if err != nil {
		return nil, fmt.Errorf("JWK n 字段解码失败: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(entry.E)
	if err != nil {
		return nil, fmt.Errorf("JWK e 字段解码失败: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e <= 0 {
		return nil, fmt.Errorf("JWK e 字段非法")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
