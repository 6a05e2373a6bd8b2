// Package trace models the record a workflow engine leaves behind after a
// finished run: the jobs that executed, the files they read and wrote, their
// timings and the dependencies between them. It loads that record from YAML
// or JSON, derives the job dependency graph and the topological position of
// every rule, and recognises the script a job's shell command runs.
package trace
