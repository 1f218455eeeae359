// Package builtin provides the sample tools used by the parley commands.
package builtin

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/spetersoncode/parley/tool"
)

// StatusToolName is the name the database status tool registers under.
const StatusToolName = "get_current_status"

// AnalystPrompt is the system prompt for alert analysis conversations.
const AnalystPrompt = "I am an operations analyst. I will analyze the alert content, " +
	"determine the current abnormal situation (alert object, abnormal pattern), " +
	"and provide analysis suggestions."

// SampleAlerts are example alerts for the alert analysis command.
var SampleAlerts = []string{
	"Alert: Database connection count exceeds threshold\nTime: 2024-03-15 15:30:00",
	"Alert: CPU usage abnormal\nTime: 2024-03-15 16:45:00\nDetails: CPU usage consistently above 90%",
}

// ServerStatus is a snapshot of database server metrics.
type ServerStatus struct {
	Connections int    `json:"Connection Count"`
	CPUUsage    string `json:"CPU Usage"`
	MemoryUsage string `json:"Memory Usage"`
}

// StatusSource produces server status snapshots.
type StatusSource interface {
	Status(ctx context.Context) (ServerStatus, error)
}

// SimulatedStatus returns random but plausible metrics.
// It is safe for concurrent use.
type SimulatedStatus struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedStatus creates a simulated source. A nil rng uses a random seed.
func NewSimulatedStatus(rng *rand.Rand) *SimulatedStatus {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SimulatedStatus{rng: rng}
}

// Status returns 10-100 connections, 1-100% CPU and 10-100% memory.
func (s *SimulatedStatus) Status(ctx context.Context) (ServerStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ServerStatus{
		Connections: 10 + s.rng.IntN(91),
		CPUUsage:    percent(1 + s.rng.Float64()*99),
		MemoryUsage: percent(10 + s.rng.Float64()*90),
	}, nil
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", math.Round(v*10)/10)
}

type statusArgs struct{}

// StatusTool returns the get_current_status registration backed by src.
func StatusTool(src StatusSource) tool.Registration {
	return tool.Func(StatusToolName,
		"Get current database server performance metrics, including: connection count, CPU usage, memory usage",
		func(ctx context.Context, _ statusArgs) (any, error) {
			return src.Status(ctx)
		})
}
