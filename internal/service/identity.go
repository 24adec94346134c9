package service

import "context"

// Identity is the authenticated caller of a governance operation, as
// extracted from the bearer token by the auth middleware.
type Identity struct {
	Wallet    string
	AvatarRef string
	Role      string
}

// TokenIssuer is the narrow mint-only capability of the reward token
// contract. The engine never holds a general transfer capability.
type TokenIssuer interface {
	MintTo(ctx context.Context, recipient string, amount int64) (string, error)
}

// ProducerRegistry verifies event producer credentials with the external
// producer registry.
type ProducerRegistry interface {
	IsVerifiedProducer(ctx context.Context, wallet string) (bool, error)
	EventBelongsToProducer(ctx context.Context, eventRef, wallet string) (bool, error)
}

// AvatarDirectory resolves a controlling wallet to its avatar reference.
type AvatarDirectory interface {
	Resolve(ctx context.Context, wallet string) (string, error)
}
