// Package mocks provides centralized mock implementations for testing.
//
// Each mock has one function field per interface method, named after the
// method with an Fn suffix. A nil function field falls back to the mock's
// default fields (or zero values), so tests only wire what they exercise.
//
//	customers := &mocks.MockCustomerStore{
//	    GetByIDFn: func(ctx context.Context, id int64) (*domain.Customer, error) {
//	        return nil, store.ErrCustomerNotFound
//	    },
//	}
//
// Store mocks return themselves from WithTx so a service running inside
// store.RunInTransaction keeps talking to the same mock.
package mocks
