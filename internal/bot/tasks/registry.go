package tasks

// RegisterAllTasks builds the map of task names to runnable task functions,
// injecting dependencies. Task names must match the keys used in the
// scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	return map[string]ScheduledTaskFunc{
		"history_maintenance": NewHistoryMaintenanceTask(deps),
	}
}
