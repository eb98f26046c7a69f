package statistics

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/cache"
	"github.com/gigbookhq/gigbook/internal/pkg/database"
)

const (
	CacheKeyGigsTotal      = "statistics:gigs:total"
	CacheKeyGigsUpcoming   = "statistics:gigs:upcoming"
	CacheKeyGigsMonthly    = "statistics:gigs:month:%s" // Format with YYYY-MM
	CacheKeyMembersActive  = "statistics:members:active"
	CacheKeyPayoutsPending = "statistics:payouts:pending"
	CacheExpiration        = 30 * time.Minute
)

// DashboardData holds the headline numbers for the band dashboard
type DashboardData struct {
	TotalGigs      int `json:"total_gigs"`
	UpcomingGigs   int `json:"upcoming_gigs"`
	GigsThisMonth  int `json:"gigs_this_month"`
	ActiveMembers  int `json:"active_members"`
	PendingPayouts int `json:"pending_payouts"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached numbers are due for a refresh
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached numbers when the interval elapsed
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Errorf("Failed to refresh statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next UpdateCacheIfNeeded to refresh
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// GetDashboard returns the dashboard numbers, served from cache where possible
func GetDashboard() DashboardData {
	return DashboardData{
		TotalGigs:      GetTotalGigs(),
		UpcomingGigs:   GetUpcomingGigs(),
		GigsThisMonth:  GetGigsThisMonth(),
		ActiveMembers:  GetActiveMembers(),
		PendingPayouts: GetPendingPayouts(),
	}
}

// UpdateStatisticsCache recomputes every cached number from the database
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalGigs int64
	if err := db.Model(&models.Gig{}).Count(&totalGigs).Error; err != nil {
		return err
	}

	var upcomingGigs int64
	today := time.Now().Format("2006-01-02")
	if err := db.Model(&models.Gig{}).
		Where("date >= ? AND status <> ?", today, models.GigStatusCancelled).
		Count(&upcomingGigs).Error; err != nil {
		return err
	}

	month := time.Now().Format("2006-01")
	var monthGigs int64
	if err := db.Model(&models.Gig{}).
		Where("DATE_FORMAT(date, '%Y-%m') = ?", month).
		Count(&monthGigs).Error; err != nil {
		return err
	}

	var activeMembers int64
	if err := db.Model(&models.User{}).
		Where("status = ?", models.STATUS_ACTIVE).
		Count(&activeMembers).Error; err != nil {
		return err
	}

	var pendingPayouts int64
	if err := db.Model(&models.Payout{}).
		Where("status = ?", models.PayoutStatusPending).
		Count(&pendingPayouts).Error; err != nil {
		return err
	}

	for key, value := range map[string]int64{
		CacheKeyGigsTotal:                       totalGigs,
		CacheKeyGigsUpcoming:                    upcomingGigs,
		fmt.Sprintf(CacheKeyGigsMonthly, month): monthGigs,
		CacheKeyMembersActive:                   activeMembers,
		CacheKeyPayoutsPending:                  pendingPayouts,
	} {
		if err := cache.Set(key, strconv.FormatInt(value, 10), CacheExpiration); err != nil {
			log.Errorf("Error caching statistic %s: %v", key, err)
			return err
		}
	}

	return nil
}

// GetTotalGigs returns the total gig count from cache or database
func GetTotalGigs() int {
	if n, ok := cachedInt(CacheKeyGigsTotal); ok {
		return n
	}

	var count int64
	if err := database.GetDB().Model(&models.Gig{}).Count(&count).Error; err != nil {
		log.Errorf("Error counting gigs: %v", err)
		return 0
	}
	storeInt(CacheKeyGigsTotal, count)
	return int(count)
}

// GetUpcomingGigs returns the future non-cancelled gig count
func GetUpcomingGigs() int {
	if n, ok := cachedInt(CacheKeyGigsUpcoming); ok {
		return n
	}

	var count int64
	today := time.Now().Format("2006-01-02")
	if err := database.GetDB().Model(&models.Gig{}).
		Where("date >= ? AND status <> ?", today, models.GigStatusCancelled).
		Count(&count).Error; err != nil {
		log.Errorf("Error counting upcoming gigs: %v", err)
		return 0
	}
	storeInt(CacheKeyGigsUpcoming, count)
	return int(count)
}

// GetGigsThisMonth returns the gig count for the current calendar month
func GetGigsThisMonth() int {
	month := time.Now().Format("2006-01")
	key := fmt.Sprintf(CacheKeyGigsMonthly, month)
	if n, ok := cachedInt(key); ok {
		return n
	}

	var count int64
	if err := database.GetDB().Model(&models.Gig{}).
		Where("DATE_FORMAT(date, '%Y-%m') = ?", month).
		Count(&count).Error; err != nil {
		log.Errorf("Error counting gigs this month: %v", err)
		return 0
	}
	storeInt(key, count)
	return int(count)
}

// GetActiveMembers returns the active member count from cache or database
func GetActiveMembers() int {
	if n, ok := cachedInt(CacheKeyMembersActive); ok {
		return n
	}

	var count int64
	if err := database.GetDB().Model(&models.User{}).
		Where("status = ?", models.STATUS_ACTIVE).
		Count(&count).Error; err != nil {
		log.Errorf("Error counting active members: %v", err)
		return 0
	}
	storeInt(CacheKeyMembersActive, count)
	return int(count)
}

// GetPendingPayouts returns the pending payout count from cache or database
func GetPendingPayouts() int {
	if n, ok := cachedInt(CacheKeyPayoutsPending); ok {
		return n
	}

	var count int64
	if err := database.GetDB().Model(&models.Payout{}).
		Where("status = ?", models.PayoutStatusPending).
		Count(&count).Error; err != nil {
		log.Errorf("Error counting pending payouts: %v", err)
		return 0
	}
	storeInt(CacheKeyPayoutsPending, count)
	return int(count)
}

func cachedInt(key string) (int, bool) {
	val, err := cache.Get(key)
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func storeInt(key string, value int64) {
	if err := cache.Set(key, strconv.FormatInt(value, 10), CacheExpiration); err != nil {
		log.Errorf("Error caching statistic %s: %v", key, err)
	}
}
