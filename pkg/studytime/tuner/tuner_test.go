package tuner

import (
	"runtime"
	"testing"
)

func TestDetect(t *testing.T) {
	resources, err := Detect()
	if err != nil {
		t.Fatalf("Detect() returned error: %v", err)
	}

	if resources.CPUCores != runtime.NumCPU() {
		t.Errorf("CPUCores = %d, want %d (runtime.NumCPU())", resources.CPUCores, runtime.NumCPU())
	}
	if resources.OpenFileLimit == 0 {
		t.Error("OpenFileLimit = 0, want > 0")
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		resources   SystemResources
		wantWorkers int
		wantWalk    int
	}{
		{
			name:        "single core",
			resources:   SystemResources{CPUCores: 1, OpenFileLimit: 1024},
			wantWorkers: 2,
			wantWalk:    2,
		},
		{
			name:        "eight cores",
			resources:   SystemResources{CPUCores: 8, OpenFileLimit: 10240},
			wantWorkers: 16,
			wantWalk:    2,
		},
		{
			name:        "many cores capped",
			resources:   SystemResources{CPUCores: 128, OpenFileLimit: 1 << 20},
			wantWorkers: 64,
			wantWalk:    2,
		},
		{
			name:        "low file limit",
			resources:   SystemResources{CPUCores: 16, OpenFileLimit: 256},
			wantWorkers: 24,
			wantWalk:    2,
		},
		{
			name:        "tiny file limit",
			resources:   SystemResources{CPUCores: 16, OpenFileLimit: 40},
			wantWorkers: 2,
			wantWalk:    8,
		},
		{
			name:        "unknown file limit",
			resources:   SystemResources{CPUCores: 4},
			wantWorkers: 8,
			wantWalk:    2,
		},
		{
			name:        "zero cores",
			resources:   SystemResources{},
			wantWorkers: 2,
			wantWalk:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.resources)
			if got.Workers != tt.wantWorkers {
				t.Errorf("Workers = %d, want %d", got.Workers, tt.wantWorkers)
			}
			if got.WalkWorkers != tt.wantWalk {
				t.Errorf("WalkWorkers = %d, want %d", got.WalkWorkers, tt.wantWalk)
			}
		})
	}
}

func TestCalculateWithOverrides(t *testing.T) {
	res := SystemResources{CPUCores: 4, OpenFileLimit: 4096}

	if got := CalculateWithOverrides(res, 0).Workers; got != 8 {
		t.Errorf("no override: Workers = %d, want 8", got)
	}
	if got := CalculateWithOverrides(res, 3).Workers; got != 3 {
		t.Errorf("override 3: Workers = %d, want 3", got)
	}
	if got := CalculateWithOverrides(res, 500).Workers; got != maxWorkers {
		t.Errorf("override 500: Workers = %d, want %d", got, maxWorkers)
	}
}
