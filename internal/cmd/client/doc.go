// Package client provides the `attend` command-line client.
//
// The CLI talks to the attend HTTP API to manage sessions and rosters from
// a terminal. It is primarily intended for operators and event organizers.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it reads
// ATTEND_HTTP and defaults to http://127.0.0.1:8080.
//
// Usage
//
//	attend session create --id friday-raid --name "Friday Raid" --max-attending 10
//	attend session list
//	attend session show --id friday-raid
//	attend session close --id friday-raid
//	attend session history --limit 20
//
//	attend act join --session friday-raid --user alice
//	attend act leave-attending --session friday-raid --user alice
//	attend act relieve --session friday-raid --user alice --target bob
//	attend act checkin --session friday-raid --user bob
//
//	attend events list --after 0 --limit 50
//	attend events follow --filter 'type == "promotion"'
//
//	attend stats show --user alice
package client
