// Package bootstrap builds a hostkit runtime from configuration.
//
// A Runtime owns the service locator the bridges resolve from. New registers
// the charset codec factory and the configured preference backend; Start
// opens the backend, seeds default preferences and publishes the branch
// under di.Contracts.PreferenceBranch; Stop releases everything in reverse.
//
// # Quick Start
//
//	cfg, err := bootstrap.Load("hostkit")
//	rt, err := bootstrap.New(cfg)
//	if err := rt.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Stop(ctx)
//
//	rt.Install() // package-level charset and pref functions now use rt
//	theme, err := pref.GetPref("browser.theme")
package bootstrap
