// Package testing provides helpers for testing compiled widget trees.
//
// # Quick Start
//
// Create a tester, pump a spec, and make assertions:
//
//	func TestLogin(t *testing.T) {
//	    tester := fishtest.NewTesterWithT(t)
//	    tester.Pump(loginSpec())
//
//	    // Find widgets
//	    submit := tester.Find(fishtest.ByText("Submit")).First()
//
//	    // Simulate taps
//	    tester.Tap(fishtest.ByText("Submit"))
//
//	    if !tester.Find(fishtest.ByTag("error")).Exists() {
//	        t.Error("expected an error label")
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare the widget tree:
//
//	tester.Snapshot().MatchesFile(t, "testdata/login.snapshot.json")
//
// Update snapshots with:
//
//	FISH_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fishtest "github.com/go-drift/fish/pkg/testing"
package testing
