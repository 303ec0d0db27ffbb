package app

import (
	"fmt"

	"github.com/Dobariya-Nishant/auth-service/pkg/cryptox"
	"github.com/Dobariya-Nishant/auth-service/pkg/jwtx"
)

// initCodec loads (or generates on first run) the two Ed25519 key pairs
// and wires them into the token codec. Access and refresh tokens must be
// signed by different keys so neither kind can stand in for the other.
func initCodec(cfg Config) (*jwtx.Codec, error) {
	accessKey, err := cryptox.LoadOrGenerateEd25519Key(cfg.AccessKeyFile)
	if err != nil {
		return nil, fmt.Errorf("access token key: %w", err)
	}

	refreshKey, err := cryptox.LoadOrGenerateEd25519Key(cfg.RefreshKeyFile)
	if err != nil {
		return nil, fmt.Errorf("refresh token key: %w", err)
	}

	if accessKey.Equal(refreshKey) {
		return nil, fmt.Errorf("access and refresh token keys must differ")
	}

	return jwtx.NewCodec(jwtx.CodecOptions{
		Issuer:     cfg.Issuer,
		AccessKey:  accessKey,
		RefreshKey: refreshKey,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
}
