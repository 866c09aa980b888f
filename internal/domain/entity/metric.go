package entity

// ComputeWorkload estimates the total workload of a course in hours.
// It averages every positive WorkloadPerWeek and multiplies by TotalWeeks.
// Returns Unknown when TotalWeeks <= 0 or no review reports a workload.
func ComputeWorkload(c *Course) float64 {
	if c.TotalWeeks <= 0 {
		return Unknown
	}
	var sum float64
	var n int
	for _, r := range c.Reviews {
		if r.WorkloadPerWeek > 0 {
			sum += r.WorkloadPerWeek
			n++
		}
	}
	if n == 0 {
		return Unknown
	}
	return sum / float64(n) * float64(c.TotalWeeks)
}

// ComputeCourseRate averages the course ratings that lie in [MinRate, MaxRate].
// Returns Unknown when no review carries a valid rating.
func ComputeCourseRate(c *Course) float64 {
	var sum float64
	var n int
	for _, r := range c.Reviews {
		if ValidRate(r.CourseRate) {
			sum += r.CourseRate
			n++
		}
	}
	if n == 0 {
		return Unknown
	}
	return sum / float64(n)
}

// InstructorRateSample collects the ratings given to the instructor at index i
// across every review of c. Reviews with too few ratings and out of range
// values are ignored. It returns the mean and the number of ratings used.
func InstructorRateSample(c *Course, i int) (mean float64, count int) {
	if i < 0 {
		return 0, 0
	}
	var sum float64
	for _, r := range c.Reviews {
		if i >= len(r.InstructorRates) {
			continue
		}
		if v := r.InstructorRates[i]; ValidRate(v) {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

// ComputeInstructorRate folds the ratings c gives to inst into inst's running
// average. The first occurrence of inst.Name in c.InstructorNames is used.
// It is a no-op when inst does not teach c or no valid rating exists.
func ComputeInstructorRate(c *Course, inst *Instructor) {
	mean, count := InstructorRateSample(c, c.InstructorIndex(inst.Name))
	inst.MergeRate(mean, count)
}

// MergeWeighted combines a running mean over n samples with a batch mean over
// m samples. When m is zero the running state is returned unchanged.
func MergeWeighted(rate float64, n int, newRate float64, m int) (float64, int) {
	if m <= 0 {
		return rate, n
	}
	total := n + m
	return (rate*float64(n) + newRate*float64(m)) / float64(total), total
}
