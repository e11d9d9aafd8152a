// Package browser opens URLs in the system default browser through
// github.com/pkg/browser.
//
// Launch validates that the URL is http or https with a host, then opens it
// in the background. A launcher that hangs is abandoned after the timeout.
// Failures are logged, not returned, because the viewer stays reachable by
// copying the printed URL.
//
//	_ = browser.Launch(browser.LaunchOptions{
//	    URL:    "http://127.0.0.1:8888/",
//	    Target: browser.TargetDefault,
//	})
//
// TargetNone disables launching, which is what --no-browser selects.
package browser
