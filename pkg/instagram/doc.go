// Package instagram provides a client for Instagram's post metadata endpoints.
//
// A Client is either anonymous or carries a session loaded from a cookie
// export. Open never fails: a session that cannot be loaded is logged and
// the client stays anonymous.
//
//	client := instagram.Open(instagram.OptionsFromConfig(cfg, log), "alice", ".sessions/alice.session")
//	post, err := client.FetchPost(ctx, "C0ffee123")
//	if err != nil {
//	    switch errors.TypeOf(err) {
//	    case errors.ErrorTypeAuth:
//	        // private post, needs a session
//	    case errors.ErrorTypeRateLimit:
//	        // slow down
//	    }
//	}
//
// Post metadata comes from the GraphQL endpoint. When that yields no media
// (login wall, HTML instead of JSON) the captioned embed page is parsed
// instead, which only ever describes the post's first media entry.
package instagram
