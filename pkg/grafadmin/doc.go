// Package grafadmin provides types, interfaces, and helpers for working with
// the Grafana administrative HTTP API.
//
// # Overview
//
// The grafadmin package defines the domain types (Org, User, Dashboard, Panel),
// the outcome values returned by every operation, and the capability interfaces
// (OrganizationsClient, UsersClient, DashboardsClient). A concrete
// implementation is provided by the grafclient package, which wires
// configuration, transport, authentication, and retries. Most consumers should
// import grafclient to construct a client and then interact with the capability
// interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/dashops-io/grafadmin/pkg/grafadmin"
//	  "github.com/dashops-io/grafadmin/pkg/grafclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := grafclient.New(&grafadmin.Config{
//	    APIEndpoint: "https://grafana.example.com",
//	    Username:    "admin",
//	    Password:    "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  orgs, err := cli.Organizations().List(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = orgs
//	}
//
// # Outcomes
//
// Operations never surface expected API-level rejections as Go errors. Every
// operation returns an outcome value whose Status field carries the classified
// result (StatusOK, StatusAccessDenied, StatusAlreadyExists, ...). A Go error
// is returned only for defects the caller cannot act on at runtime, such as a
// malformed endpoint or an unrecognized transport failure. Persistent network
// flakiness is absorbed by the retry engine and reported as
// StatusConnectionError, so callers branch on Status alone.
package grafadmin
