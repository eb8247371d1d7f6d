package sectors

import "time"

// VolumeTimestamp is the creation and modification time recorded in the
// volume label entry. It's fixed so that every format of a given device size
// produces identical bytes.
var VolumeTimestamp = time.Date(2017, time.April, 19, 21, 50, 38, 0, time.UTC)

// EncodeDate converts a date to its FAT on-disk form: years since 1980 in bits
// 9-15, the month in bits 5-8, and the day in bits 0-4.
func EncodeDate(t time.Time) uint16 {
	return uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
}

// EncodeTime converts a time of day to its FAT on-disk form: hours in bits
// 11-15, minutes in bits 5-10, and seconds divided by two in bits 0-4.
func EncodeTime(t time.Time) uint16 {
	return uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
}

// DecodeTimestamp converts the on-disk date and time fields back into a
// [time.Time] in UTC. FAT doesn't record time zones.
func DecodeTimestamp(datePart, timePart uint16) time.Time {
	return time.Date(
		1980+int(datePart>>9),
		time.Month((datePart>>5)&0x0f),
		int(datePart&0x1f),
		int(timePart>>11),
		int((timePart>>5)&0x3f),
		int(timePart&0x1f)*2,
		0,
		time.UTC,
	)
}
