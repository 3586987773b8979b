package clock_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/clock"
)

var _ = Describe("ParseDate", func() {
	j2000 := time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

	DescribeTable("accepted input",
		func(in string, want time.Time) {
			got, err := clock.ParseDate(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeTemporally("~", want, time.Millisecond))
			Expect(got.Location()).To(Equal(time.UTC))
		},
		Entry("RFC 3339", "2024-03-01T06:30:00Z", time.Date(2024, 3, 1, 6, 30, 0, 0, time.UTC)),
		Entry("RFC 3339 with offset", "2024-03-01T08:30:00+02:00", time.Date(2024, 3, 1, 6, 30, 0, 0, time.UTC)),
		Entry("date only", "1969-07-20", time.Date(1969, 7, 20, 0, 0, 0, 0, time.UTC)),
		Entry("date and minutes", "2061-07-28 12:00", time.Date(2061, 7, 28, 12, 0, 0, 0, time.UTC)),
		Entry("epoch name", " J2000 ", j2000),
		Entry("julian date", "JD 2451545.0", j2000),
		Entry("julian date without space", "jd2451545.5", j2000.Add(12*time.Hour)),
	)

	DescribeTable("rejected input",
		func(in string) {
			_, err := clock.ParseDate(in)
			Expect(err).To(MatchError(clock.ErrInvalidDate))
		},
		Entry("empty", ""),
		Entry("blank", "   "),
		Entry("garbage", "next tuesday"),
		Entry("bad month", "2024-13-01"),
		Entry("bad julian date", "JD abc"),
		Entry("negative julian date", "JD -5"),
		Entry("not-a-number julian date", "JD NaN"),
		Entry("infinite julian date", "JD Inf"),
		Entry("negative infinite julian date", "JD -Inf"),
		Entry("overflowing julian date", "JD 1e300"),
		Entry("julian date past year 9999", "JD 5373485"),
	)
})
