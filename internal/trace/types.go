package trace

import "time"

// Trace is the metadata of one finished workflow run.
type Trace struct {
	// Workflow is the path of the workflow definition file, if the engine
	// recorded one.
	Workflow string `yaml:"workflow,omitempty" json:"workflow,omitempty"`
	Jobs     []Job  `yaml:"jobs" json:"jobs"`
	// Dependencies maps a job id to the ids of the jobs it depends on.
	Dependencies map[string][]string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// Job is one concrete execution of a rule.
type Job struct {
	Rule      string   `yaml:"rule" json:"rule"`
	JobID     string   `yaml:"jobid" json:"jobid"`
	StartTime float64  `yaml:"starttime" json:"starttime"`
	EndTime   float64  `yaml:"endtime" json:"endtime"`
	Input     []string `yaml:"input,omitempty" json:"input,omitempty"`
	Output    []string `yaml:"output,omitempty" json:"output,omitempty"`
	ShellCmd  string   `yaml:"shellcmd,omitempty" json:"shellcmd,omitempty"`
	CondaEnv  *Env     `yaml:"condaEnv,omitempty" json:"condaEnv,omitempty"`
}

// Env is a dependency-environment declaration attached to a job.
type Env struct {
	Content string `yaml:"content" json:"content"`
}

// Started returns the job start as a UTC time.
func (j Job) Started() time.Time { return unixSeconds(j.StartTime) }

// Ended returns the job end as a UTC time.
func (j Job) Ended() time.Time { return unixSeconds(j.EndTime) }

func unixSeconds(s float64) time.Time {
	sec := int64(s)
	nsec := int64((s - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}
