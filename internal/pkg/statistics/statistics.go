package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/JonasWeidner/StayAtlas/app/repository"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/cache"
)

const (
	CacheKeyPropertiesTotal   = "statistics:properties:total"
	CacheKeyPropertiesVisible = "statistics:properties:visible"
	CacheKeyClicksTotal       = "statistics:clicks:total"
	CacheExpiration           = 30 * time.Minute
)

// DirectoryStats are the headline numbers shown on the landing page.
type DirectoryStats struct {
	TotalProperties   int
	VisibleProperties int
	TotalClicks       int
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached numbers are stale.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cache when the interval has elapsed.
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next check to refresh.
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recounts the directory totals and stores them in the cache
func UpdateStatisticsCache() error {
	repos := repository.GetGlobalRepositories()

	totalProperties, err := repos.Property.Count()
	if err != nil {
		log.Printf("Error counting properties: %v", err)
		return err
	}

	visibleProperties, err := repos.Property.CountVisible()
	if err != nil {
		log.Printf("Error counting visible properties: %v", err)
		return err
	}

	totalClicks, err := repos.ClickEvent.Count()
	if err != nil {
		log.Printf("Error counting clicks: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyPropertiesTotal, strconv.FormatInt(totalProperties, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyPropertiesVisible, strconv.FormatInt(visibleProperties, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyClicksTotal, strconv.FormatInt(totalClicks, 10), CacheExpiration); err != nil {
		return err
	}

	return nil
}

func cachedCount(key string, recount func() (int64, error)) int {
	if count, err := cache.GetInt(key); err == nil {
		return count
	}

	count, err := recount()
	if err != nil {
		log.Printf("Error recounting %s: %v", key, err)
		return 0
	}
	if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching %s: %v", key, err)
	}
	return int(count)
}

// GetDirectoryStats returns the cached directory totals, refreshing if needed.
func GetDirectoryStats() DirectoryStats {
	UpdateCacheIfNeeded()

	repos := repository.GetGlobalRepositories()
	return DirectoryStats{
		TotalProperties:   cachedCount(CacheKeyPropertiesTotal, repos.Property.Count),
		VisibleProperties: cachedCount(CacheKeyPropertiesVisible, repos.Property.CountVisible),
		TotalClicks:       cachedCount(CacheKeyClicksTotal, repos.ClickEvent.Count),
	}
}
