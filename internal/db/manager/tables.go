package manager

// Table names.
const (
	TableSongs     = "songs"
	TableArtists   = "artists"
	TableTime      = "time"
	TableUsers     = "users"
	TableSongplays = "songplays"
)

type tableDef struct {
	name    string
	columns string
}

// tableDefs lists the tables in creation order.
var tableDefs = []tableDef{
	{TableSongs, `
		song_id   text,
		title     text,
		artist_id text,
		year      integer,
		duration  double precision`},
	{TableArtists, `
		artist_id text,
		name      text,
		location  text,
		latitude  double precision,
		longitude double precision`},
	{TableTime, `
		start_time timestamp,
		hour       integer,
		day        integer,
		week       integer,
		month      integer,
		year       integer,
		weekday    text`},
	{TableUsers, `
		user_id    integer,
		first_name text,
		last_name  text,
		gender     text,
		level      text`},
	{TableSongplays, `
		songplay_id serial PRIMARY KEY,
		start_time  timestamp,
		user_id     integer,
		level       text,
		song_id     text,
		artist_id   text,
		session_id  integer,
		location    text,
		user_agent  text`},
}
