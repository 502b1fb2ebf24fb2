//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/weegigs/wee-visitors-go/stores/ds"
	"github.com/weegigs/wee-visitors-go/visits"
)

func live(ctx context.Context) (visits.Counter, error) {
	panic(wire.Build(ds.Live))
}

func local(ctx context.Context) (visits.Counter, error) {
	panic(wire.Build(ds.Local))
}
