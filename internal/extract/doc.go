// Package extract turns the content of song and log data files into rows.
//
// Song files hold a single JSON object. Log files hold one JSON object per
// line; only events whose page is "NextSong" are kept. All functions are
// pure and safe for concurrent use.
package extract
