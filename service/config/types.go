package config

// EnvPrefix is the prefix for environment overrides, e.g. YOLO_WORKBENCH_INSTALL_PYTHON.
const EnvPrefix = "YOLO_WORKBENCH_"

// DefaultFile is loaded from the working directory when no path is given.
const DefaultFile = "yolo-workbench.yaml"

// TableEntry is one configured row of the compatibility table.
type TableEntry struct {
	Minimum string `koanf:"minimum"`
	Tag     string `koanf:"tag"`
}

// SelectorConfig configures the driver-to-build selector.
type SelectorConfig struct {
	Table  []TableEntry `koanf:"table"`
	CPUTag string       `koanf:"cputag"`
}

// DriverConfig configures the diagnostic command.
type DriverConfig struct {
	Command string `koanf:"command"`
	Marker  string `koanf:"marker"`
}

// InstallConfig configures the install run.
type InstallConfig struct {
	Python       string   `koanf:"python"`
	Packages     []string `koanf:"packages"`
	IndexBase    string   `koanf:"indexbase"`
	Requirements string   `koanf:"requirements"`
	Module       string   `koanf:"module"`
}

// ExportConfig configures batch export.
type ExportConfig struct {
	ProjectsDir string `koanf:"projectsdir"`
	ExportDir   string `koanf:"exportdir"`
	Format      string `koanf:"format"`
}

// StorageConfig configures the run history database.
type StorageConfig struct {
	DBPath string `koanf:"dbpath"`
}

// AppConfig is the full configuration.
type AppConfig struct {
	Selector SelectorConfig `koanf:"selector"`
	Driver   DriverConfig   `koanf:"driver"`
	Install  InstallConfig  `koanf:"install"`
	Export   ExportConfig   `koanf:"export"`
	Storage  StorageConfig  `koanf:"storage"`
}
