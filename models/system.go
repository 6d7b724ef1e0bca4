package models

// CPUStats is the response shape of the CPU telemetry endpoint
type CPUStats struct {
	CurrentLoad float64       `json:"currentLoad"`
	Cores       int           `json:"cores"`
	Model       string        `json:"model"`
	Speed       float64       `json:"speed"`
	PerCore     []CPUCoreLoad `json:"perCore"`
}

// CPUCoreLoad is one per-core load sample
type CPUCoreLoad struct {
	Core int     `json:"core"`
	Load float64 `json:"load"`
}

// MemoryStats is the response shape of the memory telemetry endpoint
type MemoryStats struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"usedPercent"`
	SwapTotal   uint64  `json:"swapTotal"`
	SwapUsed    uint64  `json:"swapUsed"`
}

// DiskStats is one mount point in the storage telemetry response
type DiskStats struct {
	FS          string  `json:"fs"`
	Mount       string  `json:"mount"`
	Type        string  `json:"type"`
	Size        uint64  `json:"size"`
	Used        uint64  `json:"used"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"usedPercent"`
}

// NetworkStats is one interface in the network telemetry response
type NetworkStats struct {
	Iface   string  `json:"iface"`
	RxBytes uint64  `json:"rxBytes"`
	TxBytes uint64  `json:"txBytes"`
	RxSec   float64 `json:"rxSec"`
	TxSec   float64 `json:"txSec"`
}

// OSInfo is the response shape of the OS telemetry endpoint
type OSInfo struct {
	Platform        string `json:"platform"`
	Distro          string `json:"distro"`
	Release         string `json:"release"`
	Arch            string `json:"arch"`
	Hostname        string `json:"hostname"`
	Uptime          uint64 `json:"uptime"`
	UptimeFormatted string `json:"uptimeFormatted"`
	Timezone        string `json:"timezone"`
}

// ProcessStats is the response shape of the process telemetry endpoint
type ProcessStats struct {
	All      int           `json:"all"`
	Running  int           `json:"running"`
	Sleeping int           `json:"sleeping"`
	Blocked  int           `json:"blocked"`
	TopCPU   []ProcessInfo `json:"topCpu"`
	TopMem   []ProcessInfo `json:"topMem"`
}

// ProcessInfo is one process row in the top-CPU/top-memory lists
type ProcessInfo struct {
	Name string  `json:"name"`
	PID  int32   `json:"pid"`
	CPU  float64 `json:"cpu"`
	Mem  float64 `json:"mem"`
}

// AppStatus is the self-status document the status widgets poll
type AppStatus struct {
	Server   ServerStatus   `json:"server"`
	Tasks    TaskStats      `json:"tasks"`
	Database DatabaseStatus `json:"database"`
}

// ServerStatus describes the running process
type ServerStatus struct {
	Status        string `json:"status"`
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	GoVersion     string `json:"goVersion"`
	MemoryUsed    uint64 `json:"memoryUsed"`
	MemoryTotal   uint64 `json:"memoryTotal"`
	PID           int    `json:"pid"`
}

// DatabaseStatus describes database connectivity
type DatabaseStatus struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message,omitempty"`
}
