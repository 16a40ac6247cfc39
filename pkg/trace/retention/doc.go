// Package retention prunes old trace records on a cron schedule.
//
// Trace records are append-only, so the only sanctioned deletion is
// age-based retention enforced by this package, run by the persistence
// collaborator rather than the engine.
//
//	pruner := retention.NewPruner(store, &retention.Config{
//	    RetentionDays: 180,
//	    PruneSchedule: "0 3 * * *", // daily at 3 AM
//	})
//	if err := pruner.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pruner.Stop()
package retention
