package internal

// JumpHash maps key onto one of numBuckets buckets with Google's jump
// consistent hash (https://arxiv.org/abs/1406.2294). Growing numBuckets only
// moves the keys that land in the new buckets.
func JumpHash(key uint64, numBuckets int) int {
	if numBuckets <= 1 {
		return 0
	}

	var b, j int64 = -1, 0
	for j < int64(numBuckets) {
		b = j
		key = key*2862933555777941757 + 1
		j = int64(float64(b+1) * (float64(int64(1)<<31) / float64((key>>33)+1)))
	}
	return int(b)
}
