// Package services contains the application services behind the
// invoicekeeper CLI: authentication, the client and product catalogues,
// invoice templates and invoice bookkeeping. Services scope every record to
// the calling user and validate input before it reaches the record store.
package services

import (
	"context"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/kv"
	"github.com/dmitrijs2005/invoicekeeper/internal/records"
)

// inTx runs fn with repositories bound to a single transaction of store.
// fn must only use the repositories it is given.
func inTx(ctx context.Context, store kv.Store, fn func(ctx context.Context, r *records.Repositories) error) error {
	return kv.Update(ctx, store, func(ctx context.Context, tx kv.Store) error {
		return fn(ctx, records.NewRepositories(tx))
	})
}

// getOwned loads record id and checks that it belongs to userID. Records of
// other users are reported as missing.
func getOwned[T records.Record[T]](ctx context.Context, c *records.Collection[T], userID, id string) (T, error) {
	var zero T

	opt, err := c.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	v, ok := opt.Get()
	if !ok || v.Metadata().UserID != userID {
		return zero, common.ErrNotFound
	}
	return v, nil
}
