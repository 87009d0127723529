package services

import (
	"reflect"
	"testing"

	"flats-scraper/models"
)

func TestMergeFullOuterJoin(t *testing.T) {
	listing := models.NewTable("ID", "Dormitoris", "Plànol")
	listing.Append(models.Row{"ID": models.Int(1), "Dormitoris": models.Int(2), "Plànol": models.String("p1")})
	listing.Append(models.Row{"ID": models.Int(2), "Dormitoris": models.Int(3), "Plànol": models.Null()})

	prices := models.NewTable("ID", "Dormitoris", "Preu")
	prices.Append(models.Row{"ID": models.Int(9), "Dormitoris": models.Int(4), "Preu": models.Float(300000)})
	prices.Append(models.Row{"ID": models.Int(1), "Dormitoris": models.Int(99), "Preu": models.Float(254100)})

	out := Merge(listing, prices, "ID")

	want := [][]string{
		{"ID", "Dormitoris", "Plànol", "Preu"},
		{"1", "2", "p1", "254100.0"},
		{"2", "3", "", ""},
		{"9", "4", "", "300000.0"},
	}
	if got := out.Records(); !reflect.DeepEqual(got, want) {
		t.Errorf("records:\n got %q\nwant %q", got, want)
	}
}

func TestMergeWithEmptyPrices(t *testing.T) {
	listing := models.NewTable("ID", "Plànol")
	listing.Append(models.Row{"ID": models.Int(1), "Plànol": models.String("p1")})

	out := Merge(listing, models.NewTable("ID", "Preu"), "ID")
	if out.Len() != 1 || !out.Get(0, "Preu").IsNull() {
		t.Errorf("unexpected merge result %q", out.Records())
	}
}
