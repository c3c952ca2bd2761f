// Package store writes analytics rows to PostgreSQL, one transaction per
// input file.
//
//	st := store.New(session.Conn())
//	err := st.WithinTransaction(ctx, func(w pgetl.RowWriter) error {
//	    return w.InsertSong(ctx, song)
//	})
//
// Statements are never retried. Any failure rolls the file back.
package store
