// Package collector реализует локальный источник утилизации ресурсов через
// gopsutil. Используется вместо HTTP metrics API, когда сервис запущен на
// той же машине, что и бэкенд, или когда API недоступен.
package collector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/lightdata/push-dispatch/internal/domain/valueobject"
)

// LocalResourceSource собирает срез CPU/RAM/диска с локальной машины
type LocalResourceSource struct {
	diskPath string
}

// NewLocalResourceSource создает источник; diskPath - точка монтирования
// для замера утилизации диска (по умолчанию "/")
func NewLocalResourceSource(diskPath string) *LocalResourceSource {
	if diskPath == "" {
		diskPath = "/"
	}
	return &LocalResourceSource{diskPath: diskPath}
}

// FetchSnapshot возвращает текущий срез утилизации. Недоступные источники
// дают nil-значение, а не ошибку: анализатор умеет работать с частичным
// срезом, и частичные данные полезнее отказа всего диспатча.
func (s *LocalResourceSource) FetchSnapshot(ctx context.Context) (valueobject.ResourceSnapshot, error) {
	var snapshot valueobject.ResourceSnapshot

	if percentages, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percentages) > 0 {
		v := percentages[0]
		snapshot.CPUPercent = &v
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		v := vm.UsedPercent
		snapshot.RAMPercent = &v
	}

	if usage, err := disk.UsageWithContext(ctx, s.diskPath); err == nil {
		v := usage.UsedPercent
		snapshot.DiskPercent = &v
	}

	if snapshot.CPUPercent == nil && snapshot.RAMPercent == nil && snapshot.DiskPercent == nil {
		return snapshot, fmt.Errorf("no local resource metrics available")
	}

	return snapshot, nil
}
