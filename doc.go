// Package agentwire provides a Go client for the A2A (Agent-to-Agent)
// protocol over its JSON-RPC 2.0 HTTP+JSON transport.
//
// The client in pkg/client covers single-response calls (message/send,
// tasks/get, tasks/cancel) and server-streamed subscriptions
// (message/stream, tasks/resubscribe) decoded from Server-Sent Events.
// Authentication is pluggable via pkg/auth, including the Agentic
// challenge-response scheme where a 401 challenge is answered with a
// locally signed JWT.
//
// # Quick Start
//
// Create a client and send a message:
//
//	c, err := client.New("https://agent.example.com/a2a")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	task, err := c.SendText(ctx, "What is the weather in Berlin?")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(a2a.ExtractTaskText(task))
//
// Subscribe to a streamed response:
//
//	for ev, err := range c.SendAndSubscribe(ctx, params) {
//		if err != nil {
//			log.Fatal(err)
//		}
//		// ... handle status and artifact updates
//		if ev.Final() {
//			break
//		}
//	}
//
// The agentwire CLI in cmd/agentwire exposes the same operations for
// interactive use and scripting.
package agentwire
