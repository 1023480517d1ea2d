package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

type BookingStatus string

const (
	BookingStatusPending BookingStatus = "pendiente" // Ожидает администратора
)

// Booking - заявка студента на слот (таблица reservas)
type Booking struct {
	ID             int64         `json:"id"`
	StudentName    string        `json:"student_name"`
	StudentProgram string        `json:"student_program"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	Date           time.Time     `json:"date"` // дата создания заявки, не дата занятия
	SlotID         int64         `json:"slot_id"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Initial первая буква имени студента для публичной сетки
func (b *Booking) Initial() string {
	name := strings.TrimSpace(b.StudentName)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}

// StudentInfo данные которые студент вводит при записи
type StudentInfo struct {
	Name    string `json:"student_name"`
	Program string `json:"student_program"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// Normalize обрезает пробелы во всех полях
func (s StudentInfo) Normalize() StudentInfo {
	return StudentInfo{
		Name:    strings.TrimSpace(s.Name),
		Program: strings.TrimSpace(s.Program),
		Email:   strings.TrimSpace(s.Email),
		Phone:   strings.TrimSpace(s.Phone),
	}
}
