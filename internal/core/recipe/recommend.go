package recipe

// Recommend 在食譜列表中挑選推薦：碳水最低者優先，
// 碳水相同時蛋白質較高者勝出。空列表屬程式錯誤，直接 panic。
func Recommend(recipes []*Recipe) *Recipe {
	if len(recipes) == 0 {
		panic("recipe: Recommend called with empty list")
	}

	best := recipes[0]
	for _, r := range recipes[1:] {
		if r.Carbs.Amount < best.Carbs.Amount {
			best = r
			continue
		}
		if r.Carbs.Amount == best.Carbs.Amount && r.Protein.Amount > best.Protein.Amount {
			best = r
		}
	}
	return best
}
