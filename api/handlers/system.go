package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gopsnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/infinitelyweird/OpenClaw-Dashboard/config"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

// System serves the host telemetry endpoints the built-in monitoring widget
// templates use as data sources
type System struct {
	TDB       databases.TaskDatabase
	UDB       databases.UserDatabase
	Client    databases.ClientHelper
	StartTime time.Time
}

// CPUHandler returns overall and per-core CPU load
func (s System) CPUHandler(w http.ResponseWriter, r *http.Request) {
	stats := models.CPUStats{Cores: runtime.NumCPU()}

	if loads, err := cpu.Percent(0, false); err == nil && len(loads) > 0 {
		stats.CurrentLoad = round1(loads[0])
	}
	if perCore, err := cpu.Percent(0, true); err == nil {
		for i, load := range perCore {
			stats.PerCore = append(stats.PerCore, models.CPUCoreLoad{Core: i, Load: round1(load)})
		}
	}
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		stats.Model = info[0].ModelName
		stats.Speed = info[0].Mhz
	}

	writeJSON(w, stats)
}

// MemoryHandler returns virtual memory and swap usage
func (s System) MemoryHandler(w http.ResponseWriter, r *http.Request) {
	stats := models.MemoryStats{}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.Total = vm.Total
		stats.Used = vm.Used
		stats.Free = vm.Free
		stats.Available = vm.Available
		stats.UsedPercent = round1(vm.UsedPercent)
	}
	if swap, err := mem.SwapMemory(); err == nil {
		stats.SwapTotal = swap.Total
		stats.SwapUsed = swap.Used
	}

	writeJSON(w, stats)
}

// StorageHandler returns usage per mounted filesystem
func (s System) StorageHandler(w http.ResponseWriter, r *http.Request) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		config.ErrorStatus("failed to list partitions", http.StatusInternalServerError, w, err)
		return
	}

	mounts := make([]models.DiskStats, 0, len(partitions))
	for _, part := range partitions {
		usage, err := disk.Usage(part.Mountpoint)
		if err != nil {
			zap.S().Debugw("failed to stat mount", "mount", part.Mountpoint, "error", err)
			continue
		}
		mounts = append(mounts, models.DiskStats{
			FS:          part.Device,
			Mount:       part.Mountpoint,
			Type:        part.Fstype,
			Size:        usage.Total,
			Used:        usage.Used,
			Available:   usage.Free,
			UsedPercent: round1(usage.UsedPercent),
		})
	}

	writeJSON(w, mounts)
}

// NetworkHandler returns rx/tx totals per interface plus per-second rates
// from a short two-sample window
func (s System) NetworkHandler(w http.ResponseWriter, r *http.Request) {
	before, err := gopsnet.IOCounters(true)
	if err != nil {
		config.ErrorStatus("failed to read network counters", http.StatusInternalServerError, w, err)
		return
	}
	time.Sleep(500 * time.Millisecond)
	after, err := gopsnet.IOCounters(true)
	if err != nil {
		config.ErrorStatus("failed to read network counters", http.StatusInternalServerError, w, err)
		return
	}

	prev := make(map[string]gopsnet.IOCountersStat, len(before))
	for _, c := range before {
		prev[c.Name] = c
	}

	ifaces := make([]models.NetworkStats, 0, len(after))
	for _, c := range after {
		stat := models.NetworkStats{
			Iface:   c.Name,
			RxBytes: c.BytesRecv,
			TxBytes: c.BytesSent,
		}
		if p, ok := prev[c.Name]; ok {
			stat.RxSec = float64(c.BytesRecv-p.BytesRecv) * 2
			stat.TxSec = float64(c.BytesSent-p.BytesSent) * 2
		}
		ifaces = append(ifaces, stat)
	}

	writeJSON(w, ifaces)
}

// OSHandler returns host platform details
func (s System) OSHandler(w http.ResponseWriter, r *http.Request) {
	info := models.OSInfo{Arch: runtime.GOARCH}

	if hi, err := host.Info(); err == nil {
		info.Platform = hi.OS
		info.Distro = hi.Platform
		info.Release = hi.PlatformVersion
		info.Hostname = hi.Hostname
		info.Uptime = hi.Uptime
		info.UptimeFormatted = formatUptime(int64(hi.Uptime))
	}
	if zone, _ := time.Now().Zone(); zone != "" {
		info.Timezone = zone
	}

	writeJSON(w, info)
}

// ProcessesHandler returns process counts and the top five consumers by CPU
// and by memory
func (s System) ProcessesHandler(w http.ResponseWriter, r *http.Request) {
	procs, err := process.Processes()
	if err != nil {
		config.ErrorStatus("failed to list processes", http.StatusInternalServerError, w, err)
		return
	}

	stats := models.ProcessStats{All: len(procs)}
	infos := make([]models.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		status, _ := p.Status()
		for _, st := range status {
			switch st {
			case process.Running:
				stats.Running++
			case process.Sleep, process.Idle:
				stats.Sleeping++
			case process.Wait, process.Lock:
				stats.Blocked++
			}
		}

		name, _ := p.Name()
		cpuPct, _ := p.CPUPercent()
		memPct, _ := p.MemoryPercent()
		infos = append(infos, models.ProcessInfo{
			Name: name,
			PID:  p.Pid,
			CPU:  round1(cpuPct),
			Mem:  round1(float64(memPct)),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].CPU > infos[j].CPU })
	stats.TopCPU = topN(infos, 5)
	sort.Slice(infos, func(i, j int) bool { return infos[i].Mem > infos[j].Mem })
	stats.TopMem = topN(infos, 5)

	writeJSON(w, stats)
}

// AppStatusHandler returns the service's self-status: process health, task
// rollup and database connectivity
func (s System) AppStatusHandler(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	uptimeSeconds := int64(time.Since(s.StartTime).Seconds())
	status := models.AppStatus{
		Server: models.ServerStatus{
			Status:        "running",
			Uptime:        formatUptime(uptimeSeconds),
			UptimeSeconds: uptimeSeconds,
			GoVersion:     runtime.Version(),
			MemoryUsed:    memStats.HeapAlloc / 1024 / 1024,
			MemoryTotal:   memStats.Sys / 1024 / 1024,
			PID:           os.Getpid(),
		},
		Tasks:    s.taskStats(r),
		Database: s.databaseStatus(r),
	}

	writeJSON(w, status)
}

// UserStatsHandler returns the rollup backing the user-management widgets
func (s System) UserStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := models.UserStats{}

	stats.TotalUsers, _ = s.UDB.CountDocuments(r.Context(), bson.M{})
	stats.ApprovedUsers, _ = s.UDB.CountDocuments(r.Context(), bson.M{"isApproved": true})
	stats.PendingUsers = stats.TotalUsers - stats.ApprovedUsers
	stats.TotalRoles, _ = s.UDB.Distinct(r.Context(), "role")
	stats.TotalGroups, _ = s.UDB.Distinct(r.Context(), "groups")

	limit := int64(5)
	opts := &options.FindOptions{Limit: &limit}
	opts.SetSort(bson.M{"createdAt": -1})
	recent, err := s.UDB.Find(r.Context(), bson.M{}, opts)
	if err != nil {
		zap.S().Warnw("failed to load recent users", "error", err)
		recent = []models.User{}
	}
	stats.RecentUsers = recent

	writeJSON(w, stats)
}

func (s System) taskStats(r *http.Request) models.TaskStats {
	ctx := r.Context()
	stats := models.TaskStats{}
	stats.TotalTasks, _ = s.TDB.CountDocuments(ctx, bson.M{})
	stats.OpenTasks, _ = s.TDB.CountDocuments(ctx, bson.M{"status": models.TaskStatusOpen})
	stats.InProgressTasks, _ = s.TDB.CountDocuments(ctx, bson.M{"status": models.TaskStatusInProgress})
	stats.CompletedTasks, _ = s.TDB.CountDocuments(ctx, bson.M{"status": models.TaskStatusCompleted})
	stats.P1Tasks, _ = s.TDB.CountDocuments(ctx, bson.M{"priority": 1})
	stats.P2Tasks, _ = s.TDB.CountDocuments(ctx, bson.M{"priority": 2})
	stats.P3Tasks, _ = s.TDB.CountDocuments(ctx, bson.M{"priority": 3})
	stats.P4Tasks, _ = s.TDB.CountDocuments(ctx, bson.M{"priority": 4})
	return stats
}

func (s System) databaseStatus(r *http.Request) models.DatabaseStatus {
	status := models.DatabaseStatus{Status: "connected", Name: "mongodb"}
	if s.Client == nil {
		status.Status = "unknown"
		return status
	}
	if err := s.Client.Ping(r.Context()); err != nil {
		status.Status = "disconnected"
		status.Message = err.Error()
	}
	return status
}

func topN(infos []models.ProcessInfo, n int) []models.ProcessInfo {
	if len(infos) > n {
		infos = infos[:n]
	}
	out := make([]models.ProcessInfo, len(infos))
	copy(out, infos)
	return out
}

func formatUptime(seconds int64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
