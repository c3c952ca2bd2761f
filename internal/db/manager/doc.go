// Package manager creates and drops the five analytics tables: songs,
// artists, time, users and songplays.
//
// The tables carry no uniqueness constraints other than the serial
// songplay key, so loading the same files twice stores every row twice.
//
//	mgr := manager.New()
//
//	ok, err := mgr.Exists(ctx, conn)
//	err = mgr.Create(ctx, conn)
//	err = mgr.Drop(ctx, conn)
package manager
