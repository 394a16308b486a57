package aggregate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openshelf/shelfscan/internal/books"
)

func book(title, isbn string) books.Book {
	return books.Book{Title: title, ISBN13: isbn}
}

func TestMergeDeduplicates(t *testing.T) {
	lists := [][]books.Book{
		{book("APPLES", "111"), book("BANANAS", "222")},
		{book("APPLES AGAIN", "111"), book("CHERRIES", "333")},
	}

	merged := Merge(lists, 10)

	assert.Equal(t, []books.Book{
		book("APPLES", "111"),
		book("BANANAS", "222"),
		book("CHERRIES", "333"),
	}, merged)
}

func TestMergeFirstSeenWins(t *testing.T) {
	lists := [][]books.Book{
		{book("FIRST COPY", "999")},
		{book("SECOND COPY", "999")},
	}

	merged := Merge(lists, 10)
	assert.Equal(t, []books.Book{book("FIRST COPY", "999")}, merged)
}

func TestMergeRespectsLimit(t *testing.T) {
	var list []books.Book
	for i := range 25 {
		list = append(list, book("B", fmt.Sprintf("isbn-%d", i)))
	}

	merged := Merge([][]books.Book{list}, 5)
	assert.Len(t, merged, 5)
	assert.Equal(t, "isbn-0", merged[0].ISBN13)
	assert.Equal(t, "isbn-4", merged[4].ISBN13)
}

func TestMergeDefaultLimit(t *testing.T) {
	var list []books.Book
	for i := range 25 {
		list = append(list, book("B", fmt.Sprintf("isbn-%d", i)))
	}

	merged := Merge([][]books.Book{list}, 0)
	assert.Len(t, merged, DefaultLimit)
}

func TestMergePreservesArrivalOrder(t *testing.T) {
	lists := [][]books.Book{
		{book("REGION ONE", "111")},
		nil,
		{book("REGION THREE", "333"), book("REGION THREE B", "444")},
	}

	merged := Merge(lists, 10)
	assert.Equal(t, []string{"111", "333", "444"}, isbns(merged))
}

func TestMergeDropsRecordsWithoutIdentifier(t *testing.T) {
	lists := [][]books.Book{
		{book("NO ISBN", ""), book("HAS ISBN", "555")},
	}

	merged := Merge(lists, 10)
	assert.Equal(t, []string{"555"}, isbns(merged))
}

func TestMergeEmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, 10))
	assert.Empty(t, Merge([][]books.Book{nil, {}}, 10))
}

func isbns(list []books.Book) []string {
	out := make([]string, len(list))
	for i, b := range list {
		out[i] = b.ISBN13
	}
	return out
}
