package generator

// seedToPtrInt32 は domain の *int64 を SDK 用の *int32 に変換するのだ。
// 範囲外の値は上位ビットが切り捨てられるのだ。
func seedToPtrInt32(s *int64) *int32 {
	if s == nil {
		return nil
	}
	v := int32(*s)
	return &v
}
