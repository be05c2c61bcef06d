package schedule_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/javokhirdev/rental-management/internal/core/common/schedule"
)

func TestSchedule(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Schedule Suite")
}

var _ = Describe("DayOf", func() {
	It("keeps daytime activity on the same calendar day", func() {
		noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		d := schedule.DayOf(noon)
		Expect(d.Year()).To(Equal(2026))
		Expect(d.Month()).To(Equal(time.March))
		Expect(d.Day()).To(Equal(10))
		Expect(d.Hour()).To(BeZero())
	})

	It("dates late UTC evenings to the next business day", func() {
		// 21:00 UTC is already past midnight in Asia/Tashkent
		evening := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)
		d := schedule.DayOf(evening)
		Expect(d.Day()).To(Equal(11))
		Expect(d.Hour()).To(BeZero())
	})
})

var _ = Describe("Window", func() {
	now := func(hhmm string) time.Time {
		t, _ := time.ParseInLocation("2006-01-02 15:04", "2026-03-10 "+hhmm, schedule.Location())
		return t
	}

	It("imposes nothing when unset", func() {
		w, err := schedule.NewWindow("", "", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Contains(now("03:00"))).To(BeTrue())
	})

	It("is closed at the end edge", func() {
		w, err := schedule.NewWindow("09:00", "18:00", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Contains(now("09:00"))).To(BeTrue())
		Expect(w.Contains(now("17:59"))).To(BeTrue())
		Expect(w.Contains(now("18:00"))).To(BeFalse())
	})

	It("wraps past midnight", func() {
		w, err := schedule.NewWindow("22:00", "06:00", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Contains(now("23:30"))).To(BeTrue())
		Expect(w.Contains(now("05:59"))).To(BeTrue())
		Expect(w.Contains(now("12:00"))).To(BeFalse())
	})

	It("rejects a half-set window", func() {
		_, err := schedule.NewWindow("09:00", "", "")
		Expect(err).To(HaveOccurred())
	})
})
