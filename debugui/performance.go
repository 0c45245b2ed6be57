package debugui

import (
	"fmt"
	"sort"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/plus3/metris/loop"
)

// PerformanceStats shows frame time history and per-system timings of a
// scheduler.
type PerformanceStats struct {
	scheduler *loop.Scheduler

	historyFrames int
	frameHistory  []float32
	frameIndex    int

	systemHistory map[string][]float32
}

func NewPerformanceStats(scheduler *loop.Scheduler, historyFrames int) *PerformanceStats {
	if historyFrames <= 0 {
		historyFrames = 120
	}
	return &PerformanceStats{
		scheduler:     scheduler,
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		systemHistory: make(map[string][]float32),
	}
}

// Sample records one frame. Render calls it; it is exported for headless use.
func (ps *PerformanceStats) Sample(stats *loop.SchedulerStats, dt time.Duration) {
	ps.frameHistory[ps.frameIndex] = float32(dt.Seconds() * 1000)
	for _, sys := range stats.Systems {
		h, ok := ps.systemHistory[sys.Name]
		if !ok {
			h = make([]float32, ps.historyFrames)
			ps.systemHistory[sys.Name] = h
		}
		h[ps.frameIndex] = float32(sys.LastDuration.Seconds() * 1000)
	}
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
}

// AverageFrameTime returns the mean sampled frame time in milliseconds.
func (ps *PerformanceStats) AverageFrameTime() float32 {
	var total float32
	for _, ft := range ps.frameHistory {
		total += ft
	}
	return total / float32(ps.historyFrames)
}

// ordered returns h rotated so the oldest sample comes first.
func (ps *PerformanceStats) ordered(h []float32) []float32 {
	out := make([]float32, len(h))
	copy(out, h[ps.frameIndex:])
	copy(out[len(h)-ps.frameIndex:], h[:ps.frameIndex])
	return out
}

func (ps *PerformanceStats) Render(dt time.Duration) {
	stats := ps.scheduler.Stats()
	ps.Sample(stats, dt)

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 320), imgui.CondOnce)
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avg := ps.AverageFrameTime()
	imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))
	imgui.Text(fmt.Sprintf("Systems: %d", stats.SystemCount))
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	history := ps.ordered(ps.frameHistory)
	imgui.PlotLinesFloatPtr("##frametime", &history[0], int32(len(history)))

	if imgui.BeginTabBar("PerfTabs") {
		if imgui.BeginTabItem("Systems") {
			const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
			if imgui.BeginTableV("SystemTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
				imgui.TableSetupColumn("System")
				imgui.TableSetupColumn("Runs")
				imgui.TableSetupColumn("Avg")
				imgui.TableSetupColumn("Min")
				imgui.TableSetupColumn("Max")
				imgui.TableHeadersRow()

				for _, sys := range stats.Systems {
					imgui.TableNextRow()
					imgui.TableNextColumn()
					imgui.Text(sys.Name)
					imgui.TableNextColumn()
					imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
					imgui.TableNextColumn()
					imgui.Text(sys.AvgDuration.String())
					imgui.TableNextColumn()
					imgui.Text(sys.MinDuration.String())
					imgui.TableNextColumn()
					imgui.Text(sys.MaxDuration.String())
				}
				imgui.EndTable()
			}
			imgui.EndTabItem()
		}

		if imgui.BeginTabItem("Latency") {
			names := make([]string, 0, len(ps.systemHistory))
			for name := range ps.systemHistory {
				names = append(names, name)
			}
			sort.Strings(names)

			if implot.BeginPlotV("System Latency", imgui.NewVec2(-1, -1), 0) {
				implot.SetupAxesV("Frame", "Time (ms)", 0, implot.AxisFlagsAutoFit)
				for _, name := range names {
					samples := ps.ordered(ps.systemHistory[name])
					implot.PlotLineFloatPtrInt(name, &samples[0], int32(len(samples)))
				}
				implot.EndPlot()
			}
			imgui.EndTabItem()
		}
		imgui.EndTabBar()
	}

	imgui.End()
}

// FrameTimer measures wall time between calls.
type FrameTimer struct {
	now  func() time.Time
	last time.Time
}

// NewFrameTimer starts timing from now. A nil clock uses time.Now.
func NewFrameTimer(now func() time.Time) *FrameTimer {
	if now == nil {
		now = time.Now
	}
	return &FrameTimer{now: now, last: now()}
}

// Delta returns the time since the previous call, or since creation.
func (ft *FrameTimer) Delta() time.Duration {
	now := ft.now()
	d := now.Sub(ft.last)
	ft.last = now
	return d
}
