package cache

import "fmt"

const ChapterListKey = "list"

func ChapterKey(id uint) string {
	return fmt.Sprintf("id:%d", id)
}
