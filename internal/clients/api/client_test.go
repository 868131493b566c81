package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

func fileResponse(t *testing.T, name string) *http.Response {
	file, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBuffer(file)),
	}
}

func Test_Client_ListOpportunities_WhenWrapped_ShouldNormalize(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "https://radar.example.com/api/opportunities?limit=100&offset=20" &&
			req.Header.Get("Authorization") == "Bearer secret"
	})).Return(fileResponse(t, "opportunities_wrapped.json"), nil)

	client := NewClient("https://radar.example.com/api/")
	client.SetHTTPClient(mockClient)
	client.SetToken("secret")

	opportunities, err := client.ListOpportunities(context.Background(), models.ListQuery{Limit: 100, Offset: 20})
	require.NoError(t, err)
	require.Len(t, opportunities, 2)

	first := opportunities[0]
	assert.Equal("opp-1", first.ID)
	assert.Equal(models.StatusContacted, first.Status)
	assert.Equal([]string{"golang", "scraper"}, first.MatchedKeywords)
	assert.Equal(0.82, first.TotalScore)
	assert.Equal("7", first.KeywordSearchID)
	assert.True(first.CreatedAt.Equal(time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)))

	second := opportunities[1]
	assert.Equal("2", second.ID)
	assert.Equal(models.StatusNew, second.Status)
	assert.Empty(second.MatchedKeywords)
	assert.NotNil(second.MatchedKeywords)
	assert.Zero(second.TotalScore)
	assert.Equal("", second.KeywordSearchID)
	assert.Equal(2024, second.CreatedAt.Year())
	assert.Equal(11, second.CreatedAt.Hour())
}

func Test_Client_ListOpportunities_WhenBareArray_ShouldNormalize(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(fileResponse(t, "opportunities_bare.json"), nil)

	client := NewClient("https://radar.example.com/api")
	client.SetHTTPClient(mockClient)

	opportunities, err := client.ListOpportunities(context.Background(), models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, opportunities, 1)
	assert.Equal(t, models.StatusWon, opportunities[0].Status)
	assert.True(t, opportunities[0].CreatedAt.Equal(time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC)))
}

func Test_Client_ListKeywordSearches_ShouldBeSuccessful(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "https://radar.example.com/api/keyword-searches"
	})).Return(fileResponse(t, "keyword_searches.json"), nil)

	client := NewClient("https://radar.example.com/api")
	client.SetHTTPClient(mockClient)

	searches, err := client.ListKeywordSearches(context.Background())
	require.NoError(t, err)
	require.Len(t, searches, 2)
	assert.Equal(t, models.KeywordSearch{ID: "ks-1", Name: "Golang gigs", Keywords: []string{"golang", "go developer"}, Enabled: true}, searches[0])
	assert.Equal(t, "8", searches[1].ID)
	assert.Equal(t, []string{}, searches[1].Keywords)
}

func Test_Client_WhenStatusNotOK_ShouldFail(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: http.StatusBadGateway,
		Body:       io.NopCloser(bytes.NewBufferString("upstream down")),
	}, nil)

	client := NewClient("https://radar.example.com/api")
	client.SetHTTPClient(mockClient)

	_, err := client.ListKeywordSearches(context.Background())
	assert.ErrorContains(t, err, "502")
}

func Test_DecodeList_WhenUnexpectedObject_ShouldReturnEmpty(t *testing.T) {
	items, err := decodeList[keywordSearch]([]byte(`{"count": 0}`))
	assert.NoError(t, err)
	assert.Empty(t, items)

	_, err = decodeList[keywordSearch]([]byte(`not json`))
	assert.Error(t, err)
}
