package view

import "inkwell/internal/model"

type HomeData struct {
	Posts    []model.Post
	Page     int
	PrevPage int // 0 表示沒有上一頁
	NextPage int // 0 表示沒有下一頁
}

type PostData struct {
	Post *model.Post
}

type CategoryData struct {
	Category *model.Category
}

// PostListData dashboard 與文章管理頁共用
type PostListData struct {
	Posts []model.Post
}

// PostFormData Post 為 nil 時是新增表單
type PostFormData struct {
	Post *model.Post
}

type CategoriesData struct {
	Categories []model.Category
}
